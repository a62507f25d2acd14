package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// Index is the external search index. A nil page with a nil error means the index
// cannot serve the category; that is not a failure. Time-derived document
// fields are evaluated at now.
type Index interface {
	Search(
		ctx context.Context, req *request.Request,
		filters filter.Expression, sort []ordering.Expression, now time.Time,
	) (*result.Page, error)
}

// Store is the relational entity store.
type Store interface {
	Find(
		ctx context.Context, c category.Category, w *predicate.Where,
		sort []ordering.Expression, offset, limit int,
	) ([]document.Record, error)
	Count(ctx context.Context, c category.Category, w *predicate.Where) (int, error)
	FacetCounts(ctx context.Context, c category.Category, w *predicate.Where, field string) (map[string]int, error)
}

// ReputationProvider supplies 0-100 trust scores keyed by owner id.
type ReputationProvider interface {
	Scores(ctx context.Context, ownerIDs []string) (map[string]float64, error)
}
