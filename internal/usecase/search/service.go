// Package search executes category searches: index first, relational store as fallback.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/document"
	"github.com/kailas-cloud/discovery/internal/domain/ranking"
	"github.com/kailas-cloud/discovery/internal/domain/search/filter"
	"github.com/kailas-cloud/discovery/internal/domain/search/ordering"
	"github.com/kailas-cloud/discovery/internal/domain/search/predicate"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
	"github.com/kailas-cloud/discovery/internal/logger"
	"github.com/kailas-cloud/discovery/internal/metrics"
)

// DefaultQueryTimeout bounds a single index or store round trip.
const DefaultQueryTimeout = 2 * time.Second

// Fallback reasons.
const (
	fallbackUnavailable = "unavailable"
	fallbackError       = "error"
)

// Options tunes the service. Zero values select defaults.
type Options struct {
	QueryTimeout time.Duration
	// Concurrency caps the categories searched at once by SearchAll; 0 means all five.
	Concurrency int
	Now         func() time.Time
}

// Service runs single- and cross-category searches.
type Service struct {
	index      Index
	store      Store
	reputation ReputationProvider
	timeout    time.Duration
	limit      int
	now        func() time.Time
}

// New creates a search service. index and reputation can be nil.
func New(index Index, store Store, reputation ReputationProvider, opts Options) *Service {
	s := &Service{
		index:      index,
		store:      store,
		reputation: reputation,
		timeout:    opts.QueryTimeout,
		limit:      opts.Concurrency,
		now:        opts.Now,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultQueryTimeout
	}
	if s.limit <= 0 {
		s.limit = len(category.All())
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Search runs one category query and returns the scored envelope.
func (s *Service) Search(ctx context.Context, req *request.Request) (*Envelope, error) {
	started := time.Now()
	now := s.now()
	c := req.Category()
	sort := ordering.Resolve(c, req.Sort())

	page, source, err := s.execute(ctx, req, sort, now)
	if err != nil {
		return nil, domain.NewApplicationError("search", string(c), req.Query(), err)
	}

	docs := page.Documents()
	rc := &ranking.Context{
		Query:      req.Query(),
		Filters:    req.Filters(),
		Viewport:   req.Viewport(),
		Reputation: s.scores(ctx, docs),
		Now:        now,
	}
	items := ranking.Rank(docs, rc, ordering.IsDefault(c, req.Sort()))

	elapsed := time.Since(started)
	metrics.SearchRequestsTotal.WithLabelValues(string(c), string(source)).Inc()
	metrics.SearchDuration.WithLabelValues(string(c), string(source)).Observe(elapsed.Seconds())

	env := &Envelope{
		Items:          items,
		Total:          page.Total(),
		Page:           req.Page(),
		PageSize:       req.PageSize(),
		TotalPages:     request.TotalPages(page.Total(), req.PageSize()),
		AppliedFilters: req.Filters().Applied(),
		Viewport:       req.Viewport(),
		Metrics:        Metrics{Source: source, ProcessingTimeMs: elapsed.Milliseconds()},
	}
	if req.IncludeFacets() {
		env.Facets = page.Facets()
		if env.Facets == nil {
			env.Facets = result.Facets{}
		}
	}
	return env, nil
}

// execute tries the index and falls back to the store when the index is absent,
// errors or times out.
func (s *Service) execute(
	ctx context.Context, req *request.Request, sort []ordering.Expression, now time.Time,
) (*result.Page, result.Source, error) {
	c := req.Category()
	log := logger.FromContext(ctx).With(zap.String("category", string(c)))

	reason := fallbackUnavailable
	if s.index != nil {
		expr, ok := filter.BuildIndexExpression(c, req.Filters(), req.Viewport(), now)
		if !ok {
			expr = filter.Expression{}
		}
		ictx, cancel := context.WithTimeout(ctx, s.timeout)
		page, err := s.index.Search(ictx, req, expr, sort, now)
		cancel()
		switch {
		case err != nil:
			reason = fallbackError
			log.Warn("Index search failed, falling back to store", zap.Error(err))
		case page == nil:
			log.Debug("Index unavailable for category, using store")
		default:
			return page, result.SourceIndex, nil
		}
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	metrics.SearchFallbackTotal.WithLabelValues(string(c), reason).Inc()

	page, err := s.searchStore(ctx, req, sort, now)
	if err != nil {
		return nil, "", err
	}
	return page, result.SourceDatabase, nil
}

// searchStore is the relational path: substring text match AND structured
// predicate AND viewport, with a decoupled count under the same predicate.
func (s *Service) searchStore(
	ctx context.Context, req *request.Request, sort []ordering.Expression, now time.Time,
) (*result.Page, error) {
	started := time.Now()
	c := req.Category()

	w := predicate.New()
	predicate.ApplyText(w, c, req.Query())
	predicate.ApplyStructuredFilters(w, c, req.Filters(), now)
	predicate.ApplyViewport(w, req.Viewport())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		records []document.Record
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.Find(gctx, c, w, sort, req.Offset(), req.PageSize())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, c, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]document.Document, len(records))
	for i := range records {
		docs[i] = document.MapToDocument(c, &records[i], now)
	}

	var facets result.Facets
	if req.IncludeFacets() {
		facets = s.storeFacets(ctx, c, w)
	}

	page := result.New(docs, total, time.Since(started).Milliseconds(), facets)
	return &page, nil
}

// storeFacets groups by each facet field under w. Multi-valued taxonomy fields are
// skipped and failing fields omitted.
func (s *Service) storeFacets(ctx context.Context, c category.Category, w *predicate.Where) result.Facets {
	log := logger.FromContext(ctx)
	out := result.Facets{}
	for _, k := range filter.FacetKeys(c) {
		if k.IsMultiValued() {
			continue
		}
		counts, err := s.store.FacetCounts(ctx, c, w, string(k))
		if err != nil {
			log.Debug("Facet omitted", zap.String("category", string(c)), zap.String("field", string(k)), zap.Error(err))
			continue
		}
		out.Set(string(k), counts)
	}
	return out
}

// scores fetches owner reputation. Any failure degrades to "no signal".
func (s *Service) scores(ctx context.Context, docs []document.Document) map[string]float64 {
	if s.reputation == nil || len(docs) == 0 {
		return nil
	}
	owners := ranking.Owners(docs)
	if len(owners) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	scores, err := s.reputation.Scores(ctx, owners)
	if err != nil {
		logger.FromContext(ctx).Warn("Reputation lookup failed", zap.Error(err))
		return nil
	}
	return scores
}

// SearchAll runs query against every category concurrently, limit items each.
// A failing category is reported in its own entry; the call fails only when all do.
func (s *Service) SearchAll(ctx context.Context, query string, limit int) (*Aggregate, error) {
	if limit < 1 {
		limit = request.DefaultAggregateLimit
	}
	limit = request.ClampPageSize(limit)
	cats := category.All()
	entries := make([]CategoryResult, len(cats))
	errs := make([]error, len(cats))

	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, c := range cats {
		g.Go(func() error {
			req, err := request.New(c, query, 1, limit, filter.Set{}, nil, "", false)
			if err != nil {
				errs[i] = err
				return nil
			}
			env, err := s.Search(ctx, &req)
			if err != nil {
				errs[i] = err
				return nil
			}
			entries[i] = CategoryResult{Items: env.Items, Total: env.Total, Source: env.Metrics.Source}
			return nil
		})
	}
	_ = g.Wait()

	agg := &Aggregate{Query: query, Limit: limit, Results: make(map[category.Category]CategoryResult, len(cats))}
	failed := 0
	for i, c := range cats {
		if errs[i] != nil {
			failed++
			logger.FromContext(ctx).Warn("Category search failed",
				zap.String("category", string(c)), zap.Error(errs[i]))
			entries[i] = CategoryResult{Items: []ranking.Scored{}, Error: "search failed"}
		}
		agg.Results[c] = entries[i]
	}
	if failed == len(cats) {
		return nil, fmt.Errorf("search all categories: %w", errors.Join(errs...))
	}
	return agg, nil
}
