package search

import (
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/ranking"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// Metrics tags an envelope with the path that produced it.
type Metrics struct {
	Source           result.Source `json:"source"`
	ProcessingTimeMs int64         `json:"processingTimeMs"`
}

// Envelope is the single-category search response.
type Envelope struct {
	Items          []ranking.Scored `json:"items"`
	Total          int              `json:"total"`
	Page           int              `json:"page"`
	PageSize       int              `json:"pageSize"`
	TotalPages     int              `json:"totalPages"`
	Facets         result.Facets    `json:"facets"`
	AppliedFilters map[string]any   `json:"appliedFilters"`
	Viewport       *geo.BoundingBox `json:"viewport"`
	Metrics        Metrics          `json:"metrics"`
}

// CategoryResult is one category's slice of a cross-category search. Error is set
// instead of items when the category failed, so an empty result stays
// distinguishable from a failure.
type CategoryResult struct {
	Items  []ranking.Scored `json:"items"`
	Total  int              `json:"total"`
	Source result.Source    `json:"source,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Aggregate is the cross-category search response.
type Aggregate struct {
	Query   string                               `json:"query"`
	Limit   int                                  `json:"limit"`
	Results map[category.Category]CategoryResult `json:"results"`
}
