// Package predicate builds store-neutral conjunctive predicates for the relational path.
package predicate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/geo"
)

// Op is a clause operator.
type Op string

// Clause operators.
const (
	OpEq       Op = "="
	OpIn       Op = "IN"
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpIs       Op = "IS"
	OpSince    Op = "SINCE"
	OpContains Op = "CONTAINS"
	OpTaxonomy Op = "TAXONOMY"
	OpWithin   Op = "WITHIN"
)

// Taxonomy dimensions addressed by OpTaxonomy clauses.
const (
	TaxonomySlug = "slug"
	TaxonomyType = "type"
)

// Clause is one conjunct. Which payload field is set depends on Op.
type Clause struct {
	Field  string
	Op     Op
	Values []string
	Number float64
	Bool   bool
	Time   time.Time
	Fields []string
	Box    geo.BoundingBox
}

// String renders the clause for logs and tests.
func (c Clause) String() string {
	switch c.Op {
	case OpEq:
		return fmt.Sprintf("%s = %s", c.Field, strconv.Quote(c.Values[0]))
	case OpIn, OpTaxonomy:
		quoted := make([]string, len(c.Values))
		for i, v := range c.Values {
			quoted[i] = strconv.Quote(v)
		}
		return fmt.Sprintf("%s %s (%s)", c.Field, c.Op, strings.Join(quoted, ","))
	case OpGte, OpLte:
		return fmt.Sprintf("%s %s %g", c.Field, c.Op, c.Number)
	case OpIs:
		return fmt.Sprintf("%s IS %t", c.Field, c.Bool)
	case OpSince:
		return fmt.Sprintf("%s >= %s", c.Field, c.Time.UTC().Format(time.RFC3339))
	case OpContains:
		return fmt.Sprintf("(%s) CONTAINS %s", strings.Join(c.Fields, "|"), strconv.Quote(c.Values[0]))
	case OpWithin:
		return fmt.Sprintf("geo WITHIN [%g,%g,%g,%g]", c.Box.North, c.Box.South, c.Box.East, c.Box.West)
	}
	return string(c.Op)
}

// Where accumulates clauses joined by AND.
type Where struct {
	clauses []Clause
}

// New creates an empty predicate.
func New() *Where {
	return &Where{}
}

// Add appends a clause.
func (w *Where) Add(c Clause) *Where {
	w.clauses = append(w.clauses, c)
	return w
}

// Clauses returns the accumulated clauses in insertion order.
func (w *Where) Clauses() []Clause {
	if w == nil {
		return nil
	}
	out := make([]Clause, len(w.clauses))
	copy(out, w.clauses)
	return out
}

// IsEmpty reports whether no clause was added.
func (w *Where) IsEmpty() bool { return w == nil || len(w.clauses) == 0 }

// HasTaxonomyJoin reports whether evaluating the predicate requires joining taxonomy assignments.
func (w *Where) HasTaxonomyJoin() bool {
	if w == nil {
		return false
	}
	for _, c := range w.clauses {
		if c.Op == OpTaxonomy {
			return true
		}
	}
	return false
}

// String renders all clauses joined with AND.
func (w *Where) String() string {
	if w.IsEmpty() {
		return ""
	}
	parts := make([]string, len(w.clauses))
	for i, c := range w.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
