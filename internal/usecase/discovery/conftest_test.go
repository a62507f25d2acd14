package discovery

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/discovery/internal/domain/category"
	"github.com/kailas-cloud/discovery/internal/domain/ranking"
	"github.com/kailas-cloud/discovery/internal/domain/search/request"
	"github.com/kailas-cloud/discovery/internal/usecase/search"
)

type mockSearcher struct {
	searchFn    func(ctx context.Context, req *request.Request) (*search.Envelope, error)
	searchAllFn func(ctx context.Context, query string, limit int) (*search.Aggregate, error)
	allCalls    atomic.Int32
}

func (m *mockSearcher) Search(ctx context.Context, req *request.Request) (*search.Envelope, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &search.Envelope{Items: []ranking.Scored{}}, nil
}

func (m *mockSearcher) SearchAll(ctx context.Context, query string, limit int) (*search.Aggregate, error) {
	m.allCalls.Add(1)
	if m.searchAllFn != nil {
		return m.searchAllFn(ctx, query, limit)
	}
	results := make(map[category.Category]search.CategoryResult)
	for _, c := range category.All() {
		results[c] = search.CategoryResult{Items: []ranking.Scored{}}
	}
	return &search.Aggregate{Query: query, Limit: limit, Results: results}, nil
}

type mockShared struct {
	mu   sync.Mutex
	data map[int]Snapshot
	puts int
}

func (m *mockShared) Get(_ context.Context, limit int) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[limit]
	return s, ok
}

func (m *mockShared) Put(_ context.Context, limit int, s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[int]Snapshot)
	}
	m.data[limit] = s
	m.puts++
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}
