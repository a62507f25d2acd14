package db

import "github.com/kailas-cloud/discovery/internal/domain/search/filter"

// Query is the input for a filtered, sorted, paginated FT.SEARCH.
type Query struct {
	IndexName string
	// Text is the raw free-text query; empty matches every document.
	Text       string
	TextFields []string
	Filters    filter.Expression
	SortBy     string
	SortDesc   bool
	Offset     int
	Limit      int
	// ReturnFields restricts the returned hash fields; empty returns all.
	ReturnFields []string
}

// AggregateQuery counts documents per distinct value of GroupBy under the same
// text and filter constraints as a Query.
type AggregateQuery struct {
	IndexName  string
	Text       string
	TextFields []string
	Filters    filter.Expression
	GroupBy    string
	// Separator splits multi-valued TAG fields before grouping; empty disables splitting.
	Separator string
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// FacetBucket is one value and its document count.
type FacetBucket struct {
	Value string
	Count int
}
