package discovery

import (
	"context"

	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/usecase/search"
)

// Searcher executes single- and cross-category searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (*search.Envelope, error)
	SearchAll(ctx context.Context, query string, limit int) (*search.Aggregate, error)
}

// SharedCache stores snapshots across replicas. Misses and failures both report false.
type SharedCache interface {
	Get(ctx context.Context, limit int) (Snapshot, bool)
	Put(ctx context.Context, limit int, s Snapshot)
}
