package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// buildHashFields flattens a document into HSET fields: the indexed attributes
// plus the JSON payload returned on reads. Empty values are omitted so they never
// match a tag filter.
func buildHashFields(d *document.Document) (map[string]string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", d.ID, err)
	}
	m := map[string]string{
		payloadField: string(payload),
		"title":      d.Title,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	setNumber := func(k string, v float64) { m[k] = strconv.FormatFloat(v, 'f', -1, 64) }
	if d.CreatedAtEpoch != 0 {
		setNumber("createdAtEpoch", float64(d.CreatedAtEpoch))
	}
	if d.UpdatedAtEpoch != 0 {
		setNumber(filter.FieldUpdatedAtEpoch, float64(d.UpdatedAtEpoch))
	}
	if d.HasGeo() {
		setNumber(filter.FieldGeoLat, d.Geo.Lat)
		setNumber(filter.FieldGeoLng, d.Geo.Lng)
	}
	if d.BudgetValue != nil {
		setNumber(filter.FieldBudgetValue, *d.BudgetValue)
	}

	for _, k := range append(ownTags(d.Category), sharedTags...) {
		if vals := d.Field(string(k)); len(vals) > 0 {
			m[string(k)] = strings.Join(vals, tagSeparator)
		}
	}
	return m, nil
}

// parsePayload restores a document from its stored JSON payload.
func parsePayload(c category.Category, key string, fields map[string]string) (document.Document, error) {
	raw, ok := fields[payloadField]
	if !ok {
		return document.Document{}, fmt.Errorf("document %s has no payload", key)
	}
	var d document.Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return document.Document{}, fmt.Errorf("decode document %s: %w", key, err)
	}
	if d.ID == "" {
		d.ID = strings.TrimPrefix(key, docPrefix(c))
	}
	d.Category = c
	return d, nil
}

// touchedAt is the last update time of an indexed document, falling back to its
// creation time. Zero when the payload carries neither.
func touchedAt(d *document.Document) time.Time {
	switch {
	case d.UpdatedAtEpoch != 0:
		return time.Unix(d.UpdatedAtEpoch, 0)
	case d.CreatedAtEpoch != 0:
		return time.Unix(d.CreatedAtEpoch, 0)
	}
	return time.Time{}
}
