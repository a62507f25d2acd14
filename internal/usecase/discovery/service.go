// Package discovery is the entry point used by the transport: it parses raw client
// input, runs searches and serves the cached cross-category snapshot.
package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/geo"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/metrics"
	"github.com/kailas-cloud/discovery/internal/usecase/search"
)

// DefaultSnapshotTTL is how long a snapshot is served from memory.
const DefaultSnapshotTTL = 60 * time.Second

// ListParams is the raw client input of a category listing. Filters and Viewport
// accept a JSON string or an already decoded map.
type ListParams struct {
	Query         string
	Page          string
	PageSize      string
	Filters       any
	Viewport      any
	Sort          string
	IncludeFacets bool
}

// Snapshot is the top items of every category, as served to an empty global search.
type Snapshot struct {
	Limit       int                                         `json:"limit"`
	GeneratedAt time.Time                                   `json:"generatedAt"`
	Results     map[category.Category]search.CategoryResult `json:"results"`
}

type cachedSnapshot struct {
	snapshot Snapshot
	expires  time.Time
}

// Options tunes the service. Zero values select defaults.
type Options struct {
	SnapshotTTL time.Duration
	Now         func() time.Time
}

// Service orchestrates listing, global search and snapshots.
type Service struct {
	search Searcher
	shared SharedCache
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[int]cachedSnapshot
	group singleflight.Group
}

// New creates a discovery service. shared can be nil.
func New(s Searcher, shared SharedCache, opts Options) *Service {
	svc := &Service{
		search: s,
		shared: shared,
		ttl:    opts.SnapshotTTL,
		now:    opts.Now,
		cache:  make(map[int]cachedSnapshot),
	}
	if svc.ttl <= 0 {
		svc.ttl = DefaultSnapshotTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// ListOpportunities searches one category from raw client parameters.
func (s *Service) ListOpportunities(ctx context.Context, rawCategory string, p ListParams) (*search.Envelope, error) {
	c, err := category.Parse(rawCategory)
	if err != nil {
		return nil, err
	}
	raw, err := filter.ParseFilters(p.Filters)
	if err != nil {
		return nil, err
	}
	viewport, err := geo.NormalizeViewport(p.Viewport)
	if err != nil {
		return nil, err
	}

	req, err := request.New(c, p.Query,
		request.NormalizePage(p.Page), request.NormalizePageSize(p.PageSize),
		filter.NormalizeClientFilters(raw), viewport, p.Sort, p.IncludeFacets)
	if err != nil {
		return nil, err
	}
	return s.search.Search(ctx, &req)
}

// GlobalSearch searches every category. An empty query returns the cached snapshot.
func (s *Service) GlobalSearch(ctx context.Context, query, rawLimit string) (*search.Aggregate, error) {
	limit := request.NormalizeLimit(rawLimit, request.DefaultAggregateLimit)
	query = strings.TrimSpace(query)
	if query == "" {
		snap, err := s.DiscoverySnapshot(ctx, limit)
		if err != nil {
			return nil, err
		}
		return &search.Aggregate{Limit: snap.Limit, Results: snap.Results}, nil
	}
	if utf8.RuneCountInString(query) > request.MaxQueryLength {
		return nil, domain.NewValidationError("query", "too long (max %d chars)", request.MaxQueryLength)
	}
	return s.search.SearchAll(ctx, query, limit)
}

// DiscoverySnapshot returns the top limit items of every category. Results are cached
// in memory per limit until GeneratedAt plus the TTL; concurrent misses share one fetch.
// A shared snapshot already past that point counts as a miss.
func (s *Service) DiscoverySnapshot(ctx context.Context, limit int) (*Snapshot, error) {
	if limit < 1 {
		limit = request.DefaultAggregateLimit
	}
	limit = request.ClampPageSize(limit)

	if snap, ok := s.lookup(limit); ok {
		metrics.SnapshotCacheTotal.WithLabelValues("hit").Inc()
		return &snap, nil
	}
	metrics.SnapshotCacheTotal.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(strconv.Itoa(limit), func() (any, error) {
		if snap, ok := s.lookup(limit); ok {
			return snap, nil
		}
		fctx := context.WithoutCancel(ctx)
		if s.shared != nil {
			if snap, ok := s.shared.Get(fctx, limit); ok && s.store(limit, snap) {
				return snap, nil
			}
		}
		agg, err := s.search.SearchAll(fctx, "", limit)
		if err != nil {
			return nil, fmt.Errorf("build snapshot: %w", err)
		}
		snap := Snapshot{Limit: limit, GeneratedAt: s.now().UTC(), Results: agg.Results}
		s.store(limit, snap)
		if s.shared != nil {
			s.shared.Put(fctx, limit, snap)
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(Snapshot)
	return &snap, nil
}

func (s *Service) lookup(limit int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[limit]
	if !ok || !s.now().Before(e.expires) {
		return Snapshot{}, false
	}
	return e.snapshot, true
}

// store caches snap until GeneratedAt plus the TTL. It reports false, caching
// nothing, when that moment has already passed.
func (s *Service) store(limit int, snap Snapshot) bool {
	expires := snap.GeneratedAt.Add(s.ttl)
	if !s.now().Before(expires) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[limit] = cachedSnapshot{snapshot: snap, expires: expires}
	return true
}
