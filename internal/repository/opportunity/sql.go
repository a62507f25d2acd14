package opportunity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
)

// ErrUnsupportedField is returned for fields the category has no column for.
var ErrUnsupportedField = errors.New("unsupported field")

// args collects positional parameters.
type args struct {
	values []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// compiled is a predicate rendered for one category.
type compiled struct {
	joins []string
	conds []string
}

func (q compiled) hasJoins() bool { return len(q.joins) > 0 }

func (q compiled) whereSQL() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q compiled) joinSQL() string {
	if len(q.joins) == 0 {
		return ""
	}
	return " " + strings.Join(q.joins, " ")
}

// compile renders w against c's table aliased as o.
func compile(c category.Category, w *predicate.Where, a *args) (compiled, error) {
	var out compiled
	for _, cl := range w.Clauses() {
		switch cl.Op {
		case predicate.OpTaxonomy:
			n := len(out.joins)/2 + 1
			column := "slug"
			if cl.Field == predicate.TaxonomyType {
				column = "type"
			}
			ot, t := "ot"+strconv.Itoa(n), "t"+strconv.Itoa(n)
			out.joins = append(out.joins,
				fmt.Sprintf("JOIN opportunity_taxonomies %s ON %s.opportunity_id = o.id AND %s.category = %s",
					ot, ot, ot, a.add(string(c))),
				fmt.Sprintf("JOIN taxonomies %s ON %s.id = %s.taxonomy_id", t, t, ot))
			out.conds = append(out.conds, fmt.Sprintf("lower(%s.%s) = ANY(%s)", t, column, a.add(cl.Values)))
		case predicate.OpContains:
			cond, err := containsSQL(c, cl, a)
			if err != nil {
				return compiled{}, err
			}
			out.conds = append(out.conds, cond)
		case predicate.OpWithin:
			out.conds = append(out.conds, withinSQL(cl, a))
		default:
			expr, ok := fieldExpr(c, cl.Field)
			if !ok {
				return compiled{}, fmt.Errorf("%w: %s has no %q", ErrUnsupportedField, c, cl.Field)
			}
			cond, err := comparisonSQL(expr, cl, a)
			if err != nil {
				return compiled{}, err
			}
			out.conds = append(out.conds, cond)
		}
	}
	return out, nil
}

func comparisonSQL(expr string, cl predicate.Clause, a *args) (string, error) {
	switch cl.Op {
	case predicate.OpEq:
		return fmt.Sprintf("(%s) = %s", expr, a.add(cl.Values[0])), nil
	case predicate.OpIn:
		return fmt.Sprintf("(%s) = ANY(%s)", expr, a.add(cl.Values)), nil
	case predicate.OpGte:
		return fmt.Sprintf("(%s) >= %s", expr, a.add(cl.Number)), nil
	case predicate.OpLte:
		return fmt.Sprintf("(%s) <= %s", expr, a.add(cl.Number)), nil
	case predicate.OpIs:
		return fmt.Sprintf("(%s) = %s", expr, a.add(cl.Bool)), nil
	case predicate.OpSince:
		return fmt.Sprintf("(%s) >= %s", expr, a.add(cl.Time.UTC())), nil
	}
	return "", fmt.Errorf("unsupported operator %q on %s", cl.Op, cl.Field)
}

func containsSQL(c category.Category, cl predicate.Clause, a *args) (string, error) {
	pattern := a.add("%" + escapeLike(cl.Values[0]) + "%")
	parts := make([]string, 0, len(cl.Fields))
	for _, f := range cl.Fields {
		expr, ok := fieldExpr(c, f)
		if !ok {
			return "", fmt.Errorf("%w: %s has no %q", ErrUnsupportedField, c, f)
		}
		parts = append(parts, fmt.Sprintf(`coalesce(%s, '') ILIKE %s ESCAPE '\'`, expr, pattern))
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func withinSQL(cl predicate.Clause, a *args) string {
	b := cl.Box
	lat := fmt.Sprintf("(%s) BETWEEN %s AND %s", geoLatExpr, a.add(b.South), a.add(b.North))
	var lng string
	if b.CrossesAntimeridian() {
		lng = fmt.Sprintf("((%s) >= %s OR (%s) <= %s)", geoLngExpr, a.add(b.West), geoLngExpr, a.add(b.East))
	} else {
		lng = fmt.Sprintf("(%s) BETWEEN %s AND %s", geoLngExpr, a.add(b.West), a.add(b.East))
	}
	return geoInRangeExpr + " AND " + lat + " AND " + lng
}

// escapeLike escapes LIKE metacharacters with a backslash.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func orderSQL(c category.Category, sort []ordering.Expression) string {
	terms := make([]string, 0, len(sort))
	for _, e := range sort {
		expr, ok := fieldExpr(c, e.Field)
		if !ok {
			continue
		}
		if e.Field == "title" {
			expr = "lower(" + expr + ")"
		}
		dir := "ASC"
		if e.Descending() {
			dir = "DESC"
		}
		terms = append(terms, fmt.Sprintf("%s %s NULLS LAST", expr, dir))
	}
	if len(terms) == 0 {
		return " ORDER BY o.updated_at DESC NULLS LAST, o.id DESC"
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

var commonColumns = []string{
	"o.id::text",
	"o.title",
	"o.description",
	"o.location",
	"o.geo",
	"o.owner_id::text",
	"o.created_at",
	"o.updated_at",
}

func specificColumns(c category.Category) []string {
	switch c {
	case category.Job:
		return []string{"o.employment_type", "o.employment_category"}
	case category.Gig:
		return []string{"o.budget", "o.budget_value::double precision", "o.budget_currency", "o.duration", "o.duration_category"}
	case category.Project:
		return []string{"o.status", "o.auto_assign_enabled", "o.auto_assign_min_score::double precision", "o.auto_assign_last_run_at"}
	case category.Launchpad:
		return []string{"o.track"}
	case category.Volunteering:
		return []string{"o.organization"}
	}
	panic(fmt.Sprintf("opportunity: unknown category %q", string(c)))
}

// taxonomyColumn eager-loads the assigned taxonomies as a JSON array.
func taxonomyColumn(catParam string) string {
	return `(SELECT coalesce(jsonb_agg(jsonb_build_object('slug', t.slug, 'label', t.label, 'type', t.type) ORDER BY t.slug), '[]'::jsonb)` +
		` FROM opportunity_taxonomies ot JOIN taxonomies t ON t.id = ot.taxonomy_id` +
		` WHERE ot.opportunity_id = o.id AND ot.category = ` + catParam + `)`
}

func buildFind(
	c category.Category, w *predicate.Where, sort []ordering.Expression, offset, limit int,
) (string, []any, error) {
	a := &args{}
	cols := append(append([]string{}, commonColumns...), specificColumns(c)...)
	cols = append(cols, taxonomyColumn(a.add(string(c))))

	q, err := compile(c, w, a)
	if err != nil {
		return "", nil, err
	}
	table := tableName(c)

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s o", strings.Join(cols, ", "), table)
	if q.hasJoins() {
		fmt.Fprintf(&b, " WHERE o.id IN (SELECT o.id FROM %s o%s%s)", table, q.joinSQL(), q.whereSQL())
	} else {
		b.WriteString(q.whereSQL())
	}
	b.WriteString(orderSQL(c, sort))
	fmt.Fprintf(&b, " OFFSET %s LIMIT %s", a.add(max(offset, 0)), a.add(limit))
	return b.String(), a.values, nil
}

func buildCount(c category.Category, w *predicate.Where) (string, []any, error) {
	a := &args{}
	q, err := compile(c, w, a)
	if err != nil {
		return "", nil, err
	}
	count := "COUNT(*)"
	if q.hasJoins() {
		count = "COUNT(DISTINCT o.id)"
	}
	return fmt.Sprintf("SELECT %s FROM %s o%s%s", count, tableName(c), q.joinSQL(), q.whereSQL()), a.values, nil
}

func buildFacet(c category.Category, w *predicate.Where, field string) (string, []any, error) {
	expr, ok := fieldExpr(c, field)
	if !ok || field == "id" || field == "title" || field == "description" {
		return "", nil, fmt.Errorf("%w: %s has no facet %q", ErrUnsupportedField, c, field)
	}
	a := &args{}
	q, err := compile(c, w, a)
	if err != nil {
		return "", nil, err
	}
	value := fmt.Sprintf("(%s)::text", expr)
	q.conds = append(q.conds, fmt.Sprintf("nullif(%s, '') IS NOT NULL", value))
	return fmt.Sprintf("SELECT %s AS value, COUNT(DISTINCT o.id) FROM %s o%s%s GROUP BY 1 ORDER BY 2 DESC, 1",
		value, tableName(c), q.joinSQL(), q.whereSQL()), a.values, nil
}
