package search

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mockIndex struct {
	searchFn func(ctx context.Context, req *request.Request, f filter.Expression, sort []ordering.Expression) (*result.Page, error)
}

func (m *mockIndex) Search(
	ctx context.Context, req *request.Request, f filter.Expression, sort []ordering.Expression, _ time.Time,
) (*result.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req, f, sort)
	}
	return nil, nil
}

type mockStore struct {
	mu          sync.Mutex
	findFn      func(ctx context.Context, c category.Category, w *predicate.Where, sort []ordering.Expression, offset, limit int) ([]document.Record, error)
	countFn     func(ctx context.Context, c category.Category, w *predicate.Where) (int, error)
	facetFn     func(ctx context.Context, c category.Category, w *predicate.Where, field string) (map[string]int, error)
	findCalls   int
	facetFields []string
}

func (m *mockStore) Find(
	ctx context.Context, c category.Category, w *predicate.Where, sort []ordering.Expression, offset, limit int,
) ([]document.Record, error) {
	m.mu.Lock()
	m.findCalls++
	m.mu.Unlock()
	if m.findFn != nil {
		return m.findFn(ctx, c, w, sort, offset, limit)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, c category.Category, w *predicate.Where) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, c, w)
	}
	return 0, nil
}

func (m *mockStore) FacetCounts(ctx context.Context, c category.Category, w *predicate.Where, field string) (map[string]int, error) {
	m.mu.Lock()
	m.facetFields = append(m.facetFields, field)
	m.mu.Unlock()
	if m.facetFn != nil {
		return m.facetFn(ctx, c, w, field)
	}
	return nil, nil
}

type mockReputation struct {
	scores map[string]float64
	err    error
}

func (m *mockReputation) Scores(_ context.Context, _ []string) (map[string]float64, error) {
	return m.scores, m.err
}

func newTestService(index Index, store Store, rep ReputationProvider) *Service {
	return New(index, store, rep, Options{QueryTimeout: time.Second, Now: func() time.Time { return testNow }})
}
