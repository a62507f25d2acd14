package chi

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/ranking"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	discoveryuc "github.com/kailas-cloud/discovery/internal/usecase/discovery"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	searchuc "github.com/kailas-cloud/discovery/internal/usecase/search"
)

type mockSearcher struct {
	searchFn    func(ctx context.Context, req *request.Request) (*searchuc.Envelope, error)
	searchAllFn func(ctx context.Context, query string, limit int) (*searchuc.Aggregate, error)
}

func (m *mockSearcher) Search(ctx context.Context, req *request.Request) (*searchuc.Envelope, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &searchuc.Envelope{Items: []ranking.Scored{}, Page: req.Page(), PageSize: req.PageSize()}, nil
}

func (m *mockSearcher) SearchAll(ctx context.Context, query string, limit int) (*searchuc.Aggregate, error) {
	if m.searchAllFn != nil {
		return m.searchAllFn(ctx, query, limit)
	}
	results := make(map[category.Category]searchuc.CategoryResult)
	for _, c := range category.All() {
		results[c] = searchuc.CategoryResult{Items: []ranking.Scored{}}
	}
	return &searchuc.Aggregate{Query: query, Limit: limit, Results: results}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type testDeps struct {
	searcher *mockSearcher
	db       *mockPinger
	index    *mockPinger
}

func newTestRouter(d testDeps) http.Handler {
	if d.searcher == nil {
		d.searcher = &mockSearcher{}
	}
	if d.db == nil {
		d.db = &mockPinger{}
	}
	if d.index == nil {
		d.index = &mockPinger{}
	}
	logger := zap.NewNop()
	srv := NewServer(
		discoveryuc.New(d.searcher, nil, discoveryuc.Options{}),
		healthuc.New(d.db, d.index),
		logger,
	)

	r := chi.NewRouter()
	r.Use(Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	return HandlerWithOptions(srv, ChiServerOptions{BaseRouter: r, ErrorHandlerFunc: BadRequestHandler})
}

func doGet(h http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}
