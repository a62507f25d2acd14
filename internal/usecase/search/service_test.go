package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

func mustRequest(
	t *testing.T, c category.Category, query string, page, size int,
	raw map[string]any, sort string, facets bool,
) *request.Request {
	t.Helper()
	req, err := request.New(c, query, page, size, filter.NormalizeClientFilters(raw), nil, sort, facets)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func TestSearch_NoIndexUsesStore(t *testing.T) {
	store := &mockStore{}
	var gotWhere string
	var gotOffset, gotLimit int
	store.findFn = func(_ context.Context, c category.Category, w *predicate.Where, sort []ordering.Expression, offset, limit int) ([]document.Record, error) {
		gotWhere, gotOffset, gotLimit = w.String(), offset, limit
		return []document.Record{{ID: "g-1", Title: "Logo", Budget: "£4500", UpdatedAt: testNow}}, nil
	}
	store.countFn = func(context.Context, category.Category, *predicate.Where) (int, error) { return 41, nil }
	svc := newTestService(nil, store, nil)

	req := mustRequest(t, category.Gig, "logo", 2, 20,
		map[string]any{"durationCategory": []any{"short_term", "fixed"}}, "", false)
	env, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !strings.Contains(gotWhere, `durationCategory IN ("short_term","fixed")`) {
		t.Errorf("where = %s", gotWhere)
	}
	if !strings.Contains(gotWhere, `(title|description) CONTAINS "logo"`) {
		t.Errorf("where = %s", gotWhere)
	}
	if gotOffset != 20 || gotLimit != 20 {
		t.Errorf("offset/limit = %d/%d", gotOffset, gotLimit)
	}
	if env.Metrics.Source != result.SourceDatabase {
		t.Errorf("source = %q", env.Metrics.Source)
	}
	if env.Total != 41 || env.Page != 2 || env.PageSize != 20 || env.TotalPages != 3 {
		t.Errorf("paging = %+v", env)
	}
	if env.Facets != nil {
		t.Errorf("facets = %v, want nil", env.Facets)
	}
	if len(env.Items) != 1 {
		t.Fatalf("items = %d", len(env.Items))
	}
	it := env.Items[0]
	if it.BudgetCurrency != "GBP" || it.BudgetValue == nil || *it.BudgetValue != 4500 {
		t.Errorf("mapped gig = %+v", it.Document)
	}
	if it.AISignals.Freshness != 1 || it.AISignals.QueryAffinity != 1 {
		t.Errorf("signals = %+v", it.AISignals)
	}
	if !reflect.DeepEqual(env.AppliedFilters["durationCategory"], []string{"short_term", "fixed"}) {
		t.Errorf("applied = %v", env.AppliedFilters)
	}
}

func TestSearch_IndexServes(t *testing.T) {
	store := &mockStore{}
	idx := &mockIndex{searchFn: func(_ context.Context, req *request.Request, f filter.Expression, sort []ordering.Expression) (*result.Page, error) {
		if f.IsEmpty() {
			t.Error("expected a filter expression for employmentType")
		}
		if len(sort) == 0 || sort[0].Field != "updatedAt" {
			t.Errorf("sort = %v", sort)
		}
		p := result.New([]document.Document{{ID: "j-1", Category: category.Job, EmploymentType: "Full-time"}}, 9, 3, result.Facets{"status": {"open": 1}})
		return &p, nil
	}}
	svc := newTestService(idx, store, nil)

	env, err := svc.Search(context.Background(), mustRequest(t, category.Job, "", 1, 20,
		map[string]any{"employmentType": "Full-time"}, "", true))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if env.Metrics.Source != result.SourceIndex {
		t.Errorf("source = %q", env.Metrics.Source)
	}
	if store.findCalls != 0 {
		t.Error("store must not be queried when the index serves")
	}
	if env.Total != 9 || env.Items[0].EmploymentType != "Full-time" {
		t.Errorf("env = %+v", env)
	}
	if env.Facets["status"]["open"] != 1 {
		t.Errorf("facets = %v", env.Facets)
	}
}

func TestSearch_IndexFallback(t *testing.T) {
	tests := []struct {
		name  string
		index *mockIndex
	}{
		{"absent", &mockIndex{}},
		{"error", &mockIndex{searchFn: func(context.Context, *request.Request, filter.Expression, []ordering.Expression) (*result.Page, error) {
			return nil, errors.New("LOADING")
		}}},
		{"timeout", &mockIndex{searchFn: func(ctx context.Context, _ *request.Request, _ filter.Expression, _ []ordering.Expression) (*result.Page, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			svc := New(tt.index, store, nil, Options{QueryTimeout: 20 * time.Millisecond, Now: func() time.Time { return testNow }})
			env, err := svc.Search(context.Background(), mustRequest(t, category.Project, "", 1, 20, nil, "", false))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if env.Metrics.Source != result.SourceDatabase || store.findCalls != 1 {
				t.Errorf("source = %q, find calls = %d", env.Metrics.Source, store.findCalls)
			}
			if env.TotalPages != 1 || env.Items == nil {
				t.Errorf("empty envelope = %+v", env)
			}
		})
	}
}

func TestSearch_StoreFailureIsApplicationError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &mockStore{countFn: func(context.Context, category.Category, *predicate.Where) (int, error) { return 0, boom }}
	svc := newTestService(nil, store, nil)

	_, err := svc.Search(context.Background(), mustRequest(t, category.Job, "design", 1, 20, nil, "", false))
	if !errors.Is(err, domain.ErrApplication) || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var ae *domain.ApplicationError
	if !errors.As(err, &ae) || ae.Category != "job" || ae.Query != "design" {
		t.Errorf("application error = %+v", ae)
	}
}

func TestSearch_StoreFacets(t *testing.T) {
	store := &mockStore{facetFn: func(_ context.Context, _ category.Category, _ *predicate.Where, field string) (map[string]int, error) {
		switch field {
		case "employmentCategory":
			return map[string]int{"full_time": 3}, nil
		case "location":
			return nil, errors.New("column does not exist")
		}
		return map[string]int{}, nil
	}}
	svc := newTestService(nil, store, nil)

	env, err := svc.Search(context.Background(), mustRequest(t, category.Job, "", 1, 20, nil, "", true))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, f := range store.facetFields {
		if f == "taxonomySlugs" || f == "taxonomyTypes" {
			t.Errorf("taxonomy facet %q must be skipped on the store path", f)
		}
	}
	if !reflect.DeepEqual(env.Facets, result.Facets{"employmentCategory": {"full_time": 3}}) {
		t.Errorf("facets = %v", env.Facets)
	}
}

func TestSearch_RankingOrder(t *testing.T) {
	old := testNow.Add(-80 * 24 * time.Hour)
	records := []document.Record{
		{ID: "stale", Title: "Designer", UpdatedAt: old},
		{ID: "fresh", Title: "Designer", UpdatedAt: testNow},
	}
	store := &mockStore{findFn: func(context.Context, category.Category, *predicate.Where, []ordering.Expression, int, int) ([]document.Record, error) {
		return records, nil
	}}
	svc := newTestService(nil, store, nil)

	env, err := svc.Search(context.Background(), mustRequest(t, category.Job, "", 1, 20, nil, "", false))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if env.Items[0].ID != "fresh" {
		t.Errorf("default sort must reorder by score, got %s first", env.Items[0].ID)
	}

	env, err = svc.Search(context.Background(), mustRequest(t, category.Job, "", 1, 20, nil, "alphabetical", false))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if env.Items[0].ID != "stale" {
		t.Errorf("explicit sort must keep store order, got %s first", env.Items[0].ID)
	}
}

func TestSearch_Reputation(t *testing.T) {
	store := &mockStore{findFn: func(context.Context, category.Category, *predicate.Where, []ordering.Expression, int, int) ([]document.Record, error) {
		return []document.Record{{ID: "1", OwnerID: "u-1"}, {ID: "2", OwnerID: "u-2"}}, nil
	}}

	svc := newTestService(nil, store, &mockReputation{scores: map[string]float64{"u-1": 100}})
	env, err := svc.Search(context.Background(), mustRequest(t, category.Launchpad, "", 1, 20, nil, "newest", false))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if env.Items[0].AISignals.Reputation != 0.8 || env.Items[1].AISignals.Reputation != 0.1 {
		t.Errorf("reputation = %v / %v", env.Items[0].AISignals.Reputation, env.Items[1].AISignals.Reputation)
	}

	svc = newTestService(nil, store, &mockReputation{err: errors.New("down")})
	env, err = svc.Search(context.Background(), mustRequest(t, category.Launchpad, "", 1, 20, nil, "newest", false))
	if err != nil {
		t.Fatalf("reputation failure must not fail the search: %v", err)
	}
	if env.Items[0].AISignals.Reputation != 0.1 {
		t.Errorf("reputation = %v", env.Items[0].AISignals.Reputation)
	}
}

func TestSearchAll_RemoteAcrossCategories(t *testing.T) {
	fixtures := map[category.Category][]document.Record{
		category.Job: {{ID: "j-1", Title: "Designer", Location: "Remote - UK"}},
		category.Gig: {{ID: "g-1", Title: "Logo", Location: "Remote"}},
	}
	store := &mockStore{findFn: func(_ context.Context, c category.Category, w *predicate.Where, _ []ordering.Expression, _, limit int) ([]document.Record, error) {
		if limit != request.DefaultAggregateLimit {
			t.Errorf("limit = %d", limit)
		}
		return fixtures[c], nil
	}}
	svc := newTestService(nil, store, nil)

	agg, err := svc.SearchAll(context.Background(), "remote", 0)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(agg.Results) != 5 {
		t.Fatalf("results = %d categories", len(agg.Results))
	}
	if len(agg.Results[category.Job].Items) == 0 || len(agg.Results[category.Gig].Items) == 0 {
		t.Errorf("job/gig results empty: %+v", agg.Results)
	}
	if !agg.Results[category.Job].Items[0].IsRemote {
		t.Error("job should be remote")
	}
	if r := agg.Results[category.Project]; r.Error != "" || len(r.Items) != 0 {
		t.Errorf("project = %+v", r)
	}
}

func TestSearchAll_IsolatesFailures(t *testing.T) {
	store := &mockStore{findFn: func(_ context.Context, c category.Category, _ *predicate.Where, _ []ordering.Expression, _, _ int) ([]document.Record, error) {
		if c == category.Volunteering {
			return nil, errors.New("relation does not exist")
		}
		return []document.Record{{ID: string(c) + "-1"}}, nil
	}}
	svc := newTestService(nil, store, nil)

	agg, err := svc.SearchAll(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if agg.Limit != 3 {
		t.Errorf("limit = %d", agg.Limit)
	}
	if v := agg.Results[category.Volunteering]; v.Error == "" || v.Items == nil || len(v.Items) != 0 {
		t.Errorf("volunteering = %+v", v)
	}
	if j := agg.Results[category.Job]; j.Error != "" || len(j.Items) != 1 {
		t.Errorf("job = %+v", j)
	}
}

func TestSearchAll_AllFail(t *testing.T) {
	store := &mockStore{findFn: func(context.Context, category.Category, *predicate.Where, []ordering.Expression, int, int) ([]document.Record, error) {
		return nil, errors.New("down")
	}}
	svc := newTestService(nil, store, nil)
	if _, err := svc.SearchAll(context.Background(), "x", 5); err == nil {
		t.Error("expected error when every category fails")
	}
}
