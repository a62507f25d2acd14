package indexing

import (
	"context"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
)

// Source reads records from the relational store.
type Source interface {
	Find(
		ctx context.Context, c category.Category, w *predicate.Where,
		sort []ordering.Expression, offset, limit int,
	) ([]document.Record, error)
}

// Writer maintains the per-category search indexes.
type Writer interface {
	EnsureIndex(ctx context.Context, c category.Category, recreate bool) error
	Upsert(ctx context.Context, c category.Category, docs []document.Document) error
	Prune(ctx context.Context, c category.Category, keep map[string]struct{}) (int, error)
}
