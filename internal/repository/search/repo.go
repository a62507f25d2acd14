// Package search adapts the external RediSearch index to the discovery query contract.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/discovery/internal/db"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// store is the consumer interface for index reads (ISP).
type store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.FacetBucket, error)
}

// Repo implements usecase/search.Index.
type Repo struct {
	store store
}

// New creates an index-backed search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs req against the category index. A nil page with a nil error means the
// index cannot serve the category and the caller should use the relational path.
// Only the first ordering term is applied: FT.SEARCH sorts by a single attribute.
// Freshness is recomputed against now, so stored payloads never carry a stale score.
func (r *Repo) Search(
	ctx context.Context, req *request.Request,
	filters filter.Expression, sort []ordering.Expression, now time.Time,
) (*result.Page, error) {
	started := time.Now()
	c := req.Category()
	name := IndexName(c)

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check index %s: %w", name, err)
	}
	if !exists {
		return nil, nil
	}

	q := &db.Query{
		IndexName:    name,
		Text:         req.Query(),
		TextFields:   c.TextFields(),
		Filters:      filters,
		Offset:       req.Offset(),
		Limit:        req.PageSize(),
		ReturnFields: []string{payloadField},
	}
	if len(sort) > 0 {
		if f, ok := sortField(sort[0].Field); ok {
			q.SortBy, q.SortDesc = f, sort[0].Descending()
		}
	}

	sr, err := r.store.Search(ctx, q)
	if errors.Is(err, db.ErrIndexNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c, err)
	}

	docs := make([]document.Document, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		d, err := parsePayload(c, e.Key, e.Fields)
		if err != nil {
			return nil, err
		}
		d.FreshnessScore = document.Freshness(touchedAt(&d), now)
		docs = append(docs, d)
	}

	var facets result.Facets
	if req.IncludeFacets() {
		facets = r.facets(ctx, q, filter.FacetKeys(c))
	}

	page := result.New(docs, sr.Total, time.Since(started).Milliseconds(), facets)
	return &page, nil
}

// facets aggregates each key under the query's constraints. A failing key is omitted.
func (r *Repo) facets(ctx context.Context, q *db.Query, keys []filter.Key) result.Facets {
	out := make(result.Facets, len(keys))
	for _, k := range keys {
		aq := &db.AggregateQuery{
			IndexName:  q.IndexName,
			Text:       q.Text,
			TextFields: q.TextFields,
			Filters:    q.Filters,
			GroupBy:    string(k),
		}
		if k.IsMultiValued() {
			aq.Separator = tagSeparator
		}
		buckets, err := r.store.Aggregate(ctx, aq)
		if err != nil {
			continue
		}
		counts := make(map[string]int, len(buckets))
		for _, b := range buckets {
			counts[b.Value] = b.Count
		}
		out.Set(string(k), counts)
	}
	return out
}
