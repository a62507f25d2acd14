package document

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
)

// FreshnessWindowHours is the age after which the freshness score reaches zero.
const FreshnessWindowHours = 45 * 24

const dayLayout = "2006-01-02"

var remotePattern = regexp.MustCompile(`(?i)\b(remote|hybrid|anywhere|distributed|work[\s-]*from[\s-]*home|wfh)\b`)

// MapToDocument projects rec onto the canonical document. It is pure: the same
// record and clock always produce the same document. c must be a known category.
func MapToDocument(c category.Category, rec *Record, now time.Time) Document {
	d := Document{
		ID:          rec.ID,
		Category:    c,
		Title:       strings.TrimSpace(rec.Title),
		Description: strings.TrimSpace(rec.Description),
		OwnerID:     rec.OwnerID,
		Location:    strings.TrimSpace(rec.Location),
	}
	d.CreatedAt, d.CreatedAtEpoch, d.CreatedDay = timestamps(rec.CreatedAt)
	d.UpdatedAt, d.UpdatedAtEpoch, d.UpdatedDay = timestamps(rec.UpdatedAt)
	d.FreshnessScore = Freshness(lastTouched(rec), now)

	d.Geo = decomposeGeo(rec.Geo, d.Location)
	d.GeoCity = geoString(rec.Geo, "city")
	d.GeoRegion = geoString(rec.Geo, "region")
	d.GeoCountry = geoString(rec.Geo, "country")
	d.IsRemote = detectRemote(rec.Geo, d.Location, d.Description)

	taxonomies := MergeTaxonomies(rec)
	d.TaxonomySlugs = make([]string, 0, len(taxonomies))
	d.TaxonomyLabels = make([]string, 0, len(taxonomies))
	d.TaxonomyTypes = make([]string, 0, len(taxonomies))
	seenType := make(map[string]bool)
	for _, t := range taxonomies {
		d.TaxonomySlugs = append(d.TaxonomySlugs, t.Slug)
		d.TaxonomyLabels = append(d.TaxonomyLabels, t.Label)
		if t.Type != "" && !seenType[t.Type] {
			seenType[t.Type] = true
			d.TaxonomyTypes = append(d.TaxonomyTypes, t.Type)
		}
	}

	switch c {
	case category.Job:
		d.EmploymentType = rec.EmploymentType
		d.EmploymentCategory = strings.TrimSpace(rec.EmploymentCategory)
		if d.EmploymentCategory == "" {
			d.EmploymentCategory = EmploymentBucket(rec.EmploymentType)
		}
	case category.Gig:
		d.Budget = rec.Budget
		d.BudgetValue = rec.BudgetValue
		if d.BudgetValue == nil {
			d.BudgetValue = ParseBudgetValue(rec.Budget)
		}
		d.BudgetCurrency = strings.ToUpper(strings.TrimSpace(rec.BudgetCurrency))
		if d.BudgetCurrency == "" {
			d.BudgetCurrency = InferCurrency(rec.Budget)
		}
		d.Duration = rec.Duration
		d.DurationCategory = strings.TrimSpace(rec.DurationCategory)
		if d.DurationCategory == "" {
			d.DurationCategory = DurationBucket(rec.Duration)
		}
	case category.Project:
		d.Status = strings.TrimSpace(rec.Status)
		if rec.AutoAssign != nil {
			aa := *rec.AutoAssign
			d.AutoAssign = &aa
		}
	case category.Launchpad:
		d.Track = strings.TrimSpace(rec.Track)
	case category.Volunteering:
		d.Organization = strings.TrimSpace(rec.Organization)
	default:
		panic(fmt.Sprintf("document: unknown category %q", string(c)))
	}
	return d
}

// Freshness scores recency: round(max(0, 1080 - ageHours) * 10). Future timestamps
// count as age zero, a zero timestamp scores 0.
func Freshness(at, now time.Time) int64 {
	if at.IsZero() {
		return 0
	}
	age := max(now.Sub(at).Hours(), 0)
	return int64(math.Round(max(0, FreshnessWindowHours-age) * 10))
}

func lastTouched(rec *Record) time.Time {
	if !rec.UpdatedAt.IsZero() {
		return rec.UpdatedAt
	}
	return rec.CreatedAt
}

func timestamps(t time.Time) (string, int64, string) {
	if t.IsZero() {
		return "", 0, ""
	}
	t = t.UTC()
	return t.Format(time.RFC3339), t.Unix(), t.Format(dayLayout)
}

func detectRemote(raw map[string]any, texts ...string) bool {
	for _, key := range []string{"isRemote", "remote"} {
		if v, ok := raw[key]; ok {
			if b, ok := asBool(v); ok {
				return b
			}
		}
	}
	for _, t := range texts {
		if remotePattern.MatchString(t) {
			return true
		}
	}
	return false
}

func decomposeGeo(raw map[string]any, location string) *geo.Point {
	if len(raw) == 0 {
		return nil
	}
	lat, okLat := firstNumber(raw, "lat", "latitude")
	lng, okLng := firstNumber(raw, "lng", "longitude", "lon")
	if !okLat || !okLng || !geo.ValidateCoordinates(lat, lng) {
		return nil
	}
	label := geoString(raw, "label")
	if label == "" {
		label = location
	}
	return &geo.Point{
		Lat:     lat,
		Lng:     lng,
		City:    geoString(raw, "city"),
		Region:  geoString(raw, "region"),
		Country: geoString(raw, "country"),
		Label:   label,
	}
}

func firstNumber(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		f, ok := asNumber(v)
		return f, ok
	}
	return 0, false
}

func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	return f, geo.IsFinite(f)
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case json.Number:
		return asBool(string(b))
	case float64:
		return numericBool(b)
	case int:
		return numericBool(float64(b))
	case int64:
		return numericBool(float64(b))
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

func numericBool(f float64) (bool, bool) {
	switch f {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}

func geoString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}
