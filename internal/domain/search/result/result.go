// Package result holds what an execution path returns for one category page.
package result

import "github.com/kailas-cloud/discovery/internal/domain/document"

// Source names the execution path that produced a page.
type Source string

// Execution paths.
const (
	SourceIndex    Source = "index"
	SourceDatabase Source = "database"
)

// Facets maps a facet field to its value counts.
type Facets map[string]map[string]int

// Page is one page of matching documents plus the total match count.
type Page struct {
	documents        []document.Document
	total            int
	processingTimeMs int64
	facets           Facets
}

// New creates a result page.
func New(docs []document.Document, total int, processingTimeMs int64, facets Facets) Page {
	if total < len(docs) {
		total = len(docs)
	}
	return Page{documents: docs, total: total, processingTimeMs: processingTimeMs, facets: facets}
}

// Documents returns the page's documents in result order.
func (p *Page) Documents() []document.Document { return p.documents }

// Total returns the number of matches across all pages.
func (p *Page) Total() int { return p.total }

// ProcessingTimeMs returns the time the producing path reported, if any.
func (p *Page) ProcessingTimeMs() int64 { return p.processingTimeMs }

// Facets returns the facet distributions, nil when none were computed.
func (p *Page) Facets() Facets { return p.facets }

// Set records the counts for one field, skipping empty distributions.
func (f Facets) Set(field string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	f[field] = counts
}
