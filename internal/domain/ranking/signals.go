// Package ranking scores canonical documents with a weighted, explainable composite.
package ranking

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// FreshnessHorizon is the age at which the freshness signal reaches zero.
const FreshnessHorizon = 90 * 24 * time.Hour

// Neutral values used when a signal has no input.
const (
	neutralFreshness  = 0.5
	neutralQuery      = 0.25
	neutralTaxonomy   = 0.5
	neutralRemoteFit  = 0.5
	missingGeo        = 0.1
	missingReputation = 0.1
)

// Freshness decays linearly from 1 at age zero to 0 at FreshnessHorizon.
// A zero epoch means the timestamp is unknown.
func Freshness(updatedAtEpoch int64, now time.Time) float64 {
	if updatedAtEpoch == 0 {
		return neutralFreshness
	}
	age := now.Sub(time.Unix(updatedAtEpoch, 0))
	if age <= 0 {
		return 1
	}
	return clamp01(1 - float64(age)/float64(FreshnessHorizon))
}

// QueryAffinity is the share of distinct query terms found in title and description.
func QueryAffinity(query string, d *document.Document) float64 {
	terms := tokenize(query)
	if len(terms) == 0 {
		return neutralQuery
	}
	have := make(map[string]bool)
	for _, t := range tokenize(d.Title + " " + d.Description) {
		have[t] = true
	}
	matched := 0
	for _, t := range terms {
		if have[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// TaxonomyAlignment is the share of requested taxonomy slugs and types the document
// carries, averaged over the dimensions that were requested.
func TaxonomyAlignment(s filter.Set, d *document.Document) float64 {
	var ratios []float64
	if want := s.Values(filter.TaxonomySlugs); len(want) > 0 {
		ratios = append(ratios, overlap(want, d.TaxonomySlugs))
	}
	if want := s.Values(filter.TaxonomyTypes); len(want) > 0 {
		ratios = append(ratios, overlap(want, d.TaxonomyTypes))
	}
	if len(ratios) == 0 {
		return neutralTaxonomy
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}

// RemoteFit scores geographic fit. A remote request met by a remote document, or a
// point inside the viewport, scores 1; a point outside scores 0. Geographic criteria
// against a document without a point score 0.1; no criteria scores 0.5.
func RemoteFit(s filter.Set, d *document.Document, viewport *geo.BoundingBox) float64 {
	remote, set := s.Remote()
	wantsRemote := set && remote
	if wantsRemote && d.IsRemote {
		return 1
	}
	if viewport != nil {
		if !d.HasGeo() {
			return missingGeo
		}
		if viewport.Contains(d.Geo.Lat, d.Geo.Lng) {
			return 1
		}
		return 0
	}
	if wantsRemote {
		if !d.HasGeo() {
			return missingGeo
		}
		return 0
	}
	return neutralRemoteFit
}

// Reputation maps a 0-100 trust score onto [0.2, 0.8]. Absent scores yield 0.1.
func Reputation(score float64, ok bool) float64 {
	if !ok || !geo.IsFinite(score) {
		return missingReputation
	}
	score = math.Min(100, math.Max(0, score))
	return 0.2 + 0.6*score/100
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func overlap(want, have []string) float64 {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[strings.ToLower(h)] = true
	}
	n := 0
	for _, w := range want {
		if set[strings.ToLower(w)] {
			n++
		}
	}
	return float64(n) / float64(len(want))
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}

func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}
