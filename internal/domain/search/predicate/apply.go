package predicate

import (
	"strings"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
)

// Relational field names that do not map one-to-one onto a filter key.
const (
	FieldBudgetValue = "budgetValue"
	FieldUpdatedAt   = "updatedAt"
)

// ApplyStructuredFilters appends the relational twin of filter.BuildIndexExpression to w.
// Keys that do not apply to the category are skipped.
func ApplyStructuredFilters(w *Where, c category.Category, s filter.Set, now time.Time) {
	s = s.ForCategory(c)
	if s.IsEmpty() {
		return
	}
	for _, k := range filter.Keys() {
		if !k.AppliesTo(c) || !s.Has(k) {
			continue
		}
		switch k {
		case filter.IsRemote:
			remote, _ := s.Remote()
			w.Add(Clause{Field: string(k), Op: OpIs, Bool: remote})
		case filter.BudgetValueMin:
			if r, ok := s.Budget(); ok && r.GTE() != nil {
				w.Add(Clause{Field: FieldBudgetValue, Op: OpGte, Number: *r.GTE()})
			}
		case filter.BudgetValueMax:
			if r, ok := s.Budget(); ok && r.LTE() != nil {
				w.Add(Clause{Field: FieldBudgetValue, Op: OpLte, Number: *r.LTE()})
			}
		case filter.UpdatedWithin:
			if d, ok := s.UpdatedWithin(); ok {
				w.Add(Clause{Field: FieldUpdatedAt, Op: OpSince, Time: now.Add(-d)})
			}
		case filter.TaxonomySlugs:
			w.Add(Clause{Field: TaxonomySlug, Op: OpTaxonomy, Values: s.Values(k)})
		case filter.TaxonomyTypes:
			w.Add(Clause{Field: TaxonomyType, Op: OpTaxonomy, Values: s.Values(k)})
		default:
			vals := s.Values(k)
			if len(vals) == 1 {
				w.Add(Clause{Field: string(k), Op: OpEq, Values: vals})
			} else {
				w.Add(Clause{Field: string(k), Op: OpIn, Values: vals})
			}
		}
	}
}

// ApplyText appends a case-insensitive substring match over the category's text fields.
func ApplyText(w *Where, c category.Category, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	w.Add(Clause{Op: OpContains, Fields: c.TextFields(), Values: []string{query}})
}

// ApplyViewport restricts matches to documents whose point lies inside the box.
func ApplyViewport(w *Where, box *geo.BoundingBox) {
	if box == nil {
		return
	}
	w.Add(Clause{Field: "geo", Op: OpWithin, Box: *box})
}
