package opportunity

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestFind_TextAndStructured(t *testing.T) {
	repo, m := newTestRepo()
	w := predicate.New()
	predicate.ApplyText(w, category.Job, "design")
	w.Add(predicate.Clause{Field: "employmentCategory", Op: predicate.OpEq, Values: []string{"full_time"}})

	_, err := repo.Find(context.Background(), category.Job, w, ordering.Resolve(category.Job, ""), 20, 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	for _, want := range []string{
		"FROM jobs o WHERE ",
		`coalesce(o.title, '') ILIKE $2 ESCAPE '\'`,
		`coalesce(o.description, '') ILIKE $2 ESCAPE '\'`,
		"= $3",
		"ORDER BY o.updated_at DESC NULLS LAST, o.id DESC NULLS LAST",
		"OFFSET $4 LIMIT $5",
	} {
		if !strings.Contains(m.lastSQL, want) {
			t.Errorf("sql missing %q:\n%s", want, m.lastSQL)
		}
	}
	if strings.Contains(m.lastSQL, "o.id IN (SELECT") {
		t.Error("no taxonomy clause, expected a flat WHERE")
	}
	want := []any{"job", "%design%", "full_time", 20, 10}
	if !reflect.DeepEqual(m.lastArgs, want) {
		t.Errorf("args = %#v, want %#v", m.lastArgs, want)
	}
}

func TestFind_TaxonomyJoinUsesSubquery(t *testing.T) {
	repo, m := newTestRepo()
	set := filter.NormalizeClientFilters(map[string]any{"taxonomySlugs": []any{"Go", "rust"}})
	w := predicate.New()
	predicate.ApplyStructuredFilters(w, category.Gig, set, testNow)

	if _, err := repo.Find(context.Background(), category.Gig, w, nil, 0, 20); err != nil {
		t.Fatalf("Find: %v", err)
	}
	for _, want := range []string{
		"FROM gigs o WHERE o.id IN (SELECT o.id FROM gigs o JOIN opportunity_taxonomies ot1 ON ot1.opportunity_id = o.id AND ot1.category = $2",
		"JOIN taxonomies t1 ON t1.id = ot1.taxonomy_id",
		"lower(t1.slug) = ANY($3)",
	} {
		if !strings.Contains(m.lastSQL, want) {
			t.Errorf("sql missing %q:\n%s", want, m.lastSQL)
		}
	}
	if got := m.lastArgs[2]; !reflect.DeepEqual(got, []string{"go", "rust"}) {
		t.Errorf("slugs arg = %#v", got)
	}
}

func TestFind_ScansGigRecord(t *testing.T) {
	created := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{{
		"g-1", strPtr("Logo design"), strPtr("Fast turnaround"), strPtr("Remote"),
		[]byte(`{"lat":"40.7","lng":-74.0,"city":"NYC"}`), strPtr("u-9"), &created, nil,
		strPtr("$500"), nil, nil, strPtr("2 weeks"), nil,
		[]byte(`[{"slug":"design","label":"Design","type":"skill"}]`),
	}}}
	repo, m := newTestRepo()
	m.queryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return rows, nil }

	recs, err := repo.Find(context.Background(), category.Gig, predicate.New(), nil, 0, 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !rows.closed {
		t.Error("rows not closed")
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d", len(recs))
	}
	r := recs[0]
	if r.ID != "g-1" || r.Title != "Logo design" || r.OwnerID != "u-9" {
		t.Errorf("record = %+v", r)
	}
	if !r.CreatedAt.Equal(created) || !r.UpdatedAt.IsZero() {
		t.Errorf("timestamps = %v / %v", r.CreatedAt, r.UpdatedAt)
	}
	if r.Budget != "$500" || r.BudgetValue != nil || r.Duration != "2 weeks" {
		t.Errorf("gig fields = %+v", r)
	}
	if r.Geo["city"] != "NYC" {
		t.Errorf("geo = %#v", r.Geo)
	}
	if len(r.TaxonomyAssignments) != 1 || r.TaxonomyAssignments[0].Type != "skill" {
		t.Errorf("taxonomies = %+v", r.TaxonomyAssignments)
	}
}

func TestFind_ScansProjectAutoAssign(t *testing.T) {
	enabled := true
	rows := &fakeRows{rows: [][]any{{
		"p-1", strPtr("Data pipeline"), nil, nil, nil, nil, nil, nil,
		strPtr("open"), &enabled, floatPtr(0.7), nil,
		[]byte(`[]`),
	}}}
	repo, m := newTestRepo()
	m.queryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return rows, nil }

	recs, err := repo.Find(context.Background(), category.Project, nil, nil, 0, 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	aa := recs[0].AutoAssign
	if aa == nil || !aa.Enabled || aa.MinScore == nil || *aa.MinScore != 0.7 {
		t.Errorf("auto assign = %+v", aa)
	}
	if recs[0].Status != "open" || recs[0].Geo != nil {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestFind_Errors(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("query", func(t *testing.T) {
		repo, m := newTestRepo()
		m.queryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, boom }
		_, err := repo.Find(context.Background(), category.Job, nil, nil, 0, 10)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("rows", func(t *testing.T) {
		repo, m := newTestRepo()
		m.queryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return &fakeRows{err: boom}, nil }
		_, err := repo.Find(context.Background(), category.Job, nil, nil, 0, 10)
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		repo, _ := newTestRepo()
		w := predicate.New().Add(predicate.Clause{Field: "track", Op: predicate.OpEq, Values: []string{"x"}})
		_, err := repo.Find(context.Background(), category.Job, w, nil, 0, 10)
		if !errors.Is(err, ErrUnsupportedField) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestCount(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		repo, m := newTestRepo()
		m.queryRowFn = func(context.Context, string, ...any) pgx.Row { return &fakeRow{values: []any{int64(42)}} }
		w := predicate.New().Add(predicate.Clause{Field: "isRemote", Op: predicate.OpIs, Bool: true})

		n, err := repo.Count(context.Background(), category.Launchpad, w)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if n != 42 {
			t.Errorf("n = %d", n)
		}
		if !strings.HasPrefix(m.lastSQL, "SELECT COUNT(*) FROM launchpads o WHERE (CASE") {
			t.Errorf("sql = %s", m.lastSQL)
		}
		if !reflect.DeepEqual(m.lastArgs, []any{true}) {
			t.Errorf("args = %#v", m.lastArgs)
		}
	})

	t.Run("taxonomy join counts distinct", func(t *testing.T) {
		repo, m := newTestRepo()
		w := predicate.New().Add(predicate.Clause{
			Field: predicate.TaxonomyType, Op: predicate.OpTaxonomy, Values: []string{"skill"},
		})
		if _, err := repo.Count(context.Background(), category.Volunteering, w); err != nil {
			t.Fatalf("Count: %v", err)
		}
		if !strings.HasPrefix(m.lastSQL, "SELECT COUNT(DISTINCT o.id) FROM volunteering_roles o JOIN") {
			t.Errorf("sql = %s", m.lastSQL)
		}
		if !strings.Contains(m.lastSQL, "lower(t1.type) = ANY($2)") {
			t.Errorf("sql = %s", m.lastSQL)
		}
	})

	t.Run("error", func(t *testing.T) {
		repo, m := newTestRepo()
		boom := errors.New("timeout")
		m.queryRowFn = func(context.Context, string, ...any) pgx.Row { return &fakeRow{err: boom} }
		if _, err := repo.Count(context.Background(), category.Job, nil); !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestFacetCounts(t *testing.T) {
	repo, m := newTestRepo()
	m.queryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{rows: [][]any{{"short_term", int64(3)}, {"long_term", int64(1)}}}, nil
	}

	counts, err := repo.FacetCounts(context.Background(), category.Gig, predicate.New(), "durationCategory")
	if err != nil {
		t.Fatalf("FacetCounts: %v", err)
	}
	if !reflect.DeepEqual(counts, map[string]int{"short_term": 3, "long_term": 1}) {
		t.Errorf("counts = %v", counts)
	}
	if !strings.Contains(m.lastSQL, "GROUP BY 1 ORDER BY 2 DESC, 1") {
		t.Errorf("sql = %s", m.lastSQL)
	}
	if !strings.Contains(m.lastSQL, "COUNT(DISTINCT o.id) FROM gigs o WHERE nullif(") {
		t.Errorf("sql = %s", m.lastSQL)
	}
}

func TestFacetCounts_UnsupportedFields(t *testing.T) {
	repo, _ := newTestRepo()
	for _, field := range []string{"taxonomySlugs", "taxonomyTypes", "budgetCurrency", "title"} {
		_, err := repo.FacetCounts(context.Background(), category.Job, nil, field)
		if !errors.Is(err, ErrUnsupportedField) {
			t.Errorf("%s: err = %v", field, err)
		}
	}
}

func TestWithinSQL(t *testing.T) {
	t.Run("regular", func(t *testing.T) {
		a := &args{}
		got := withinSQL(predicate.Clause{Op: predicate.OpWithin, Box: geo.BoundingBox{North: 41, South: 40, East: -73, West: -75}}, a)
		if strings.Contains(got, " OR ") {
			t.Errorf("unexpected disjunction: %s", got)
		}
		if !reflect.DeepEqual(a.values, []any{40.0, 41.0, -75.0, -73.0}) {
			t.Errorf("args = %#v", a.values)
		}
	})

	t.Run("out of range points never match", func(t *testing.T) {
		got := withinSQL(predicate.Clause{Op: predicate.OpWithin, Box: geo.BoundingBox{North: 90, South: -90, East: 180, West: -180}}, &args{})
		if !strings.HasPrefix(got, geoInRangeExpr+" AND ") {
			t.Errorf("sql = %s", got)
		}
		for _, want := range []string{"BETWEEN -90 AND 90", "BETWEEN -180 AND 180"} {
			if !strings.Contains(geoInRangeExpr, want) {
				t.Errorf("range guard %q lacks %q", geoInRangeExpr, want)
			}
		}
	})

	t.Run("antimeridian", func(t *testing.T) {
		a := &args{}
		got := withinSQL(predicate.Clause{Op: predicate.OpWithin, Box: geo.BoundingBox{North: 10, South: -10, East: -170, West: 170}}, a)
		if !strings.Contains(got, ">= $3 OR") || !strings.Contains(got, "<= $4)") {
			t.Errorf("sql = %s", got)
		}
	})
}

func TestEscapeLike(t *testing.T) {
	tests := []struct{ in, want string }{
		{"design", "design"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOrderSQL(t *testing.T) {
	got := orderSQL(category.Gig, ordering.Resolve(category.Gig, "budget"))
	if !strings.HasPrefix(got, " ORDER BY coalesce(o.budget_value::double precision") {
		t.Errorf("order = %s", got)
	}
	if !strings.HasSuffix(got, "o.updated_at DESC NULLS LAST, o.id DESC NULLS LAST") {
		t.Errorf("order = %s", got)
	}

	if got := orderSQL(category.Job, ordering.Resolve(category.Job, "alphabetical")); got != " ORDER BY lower(o.title) ASC NULLS LAST, o.id ASC NULLS LAST" {
		t.Errorf("order = %s", got)
	}
}

func TestRemoteExprTrimsFlag(t *testing.T) {
	expr, ok := fieldExpr(category.Job, "isRemote")
	if !ok {
		t.Fatal("isRemote not mapped")
	}
	for _, key := range []string{"isRemote", "remote"} {
		want := "lower(btrim(o.geo->>'" + key + "')) IN ('true', '1')"
		if !strings.Contains(expr, want) {
			t.Errorf("expr missing %q:\n%s", want, expr)
		}
	}
}
