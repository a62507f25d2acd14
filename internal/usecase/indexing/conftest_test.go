package indexing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
)

type mockSource struct {
	records map[category.Category][]document.Record
	err     error
	offsets []int
}

func (m *mockSource) Find(
	_ context.Context, c category.Category, _ *predicate.Where, _ []ordering.Expression, offset, limit int,
) ([]document.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.offsets = append(m.offsets, offset)
	all := m.records[c]
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

type mockWriter struct {
	ensureFn  func(ctx context.Context, c category.Category, recreate bool) error
	upserted  map[category.Category][]document.Document
	batches   int
	keep      map[category.Category]map[string]struct{}
	prunedN   int
	upsertErr error
}

func (m *mockWriter) EnsureIndex(ctx context.Context, c category.Category, recreate bool) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, c, recreate)
	}
	return nil
}

func (m *mockWriter) Upsert(_ context.Context, c category.Category, docs []document.Document) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.upserted == nil {
		m.upserted = make(map[category.Category][]document.Document)
	}
	m.upserted[c] = append(m.upserted[c], docs...)
	m.batches++
	return nil
}

func (m *mockWriter) Prune(_ context.Context, c category.Category, keep map[string]struct{}) (int, error) {
	if m.keep == nil {
		m.keep = make(map[category.Category]map[string]struct{})
	}
	m.keep[c] = keep
	return m.prunedN, nil
}

func newTestService(src *mockSource, w *mockWriter, batch int) *Service {
	s := New(src, w, batch, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return s
}
