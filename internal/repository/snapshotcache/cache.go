// Package snapshotcache shares discovery snapshots between replicas through the key-value store.
package snapshotcache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/db"
	"github.com/kailas-cloud/discovery/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "snapshot:"

// store is the consumer interface for the snapshot cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores JSON-encoded snapshots keyed by their per-category limit.
// Failures are logged and reported as misses.
type Cache[T any] struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a shared snapshot cache.
// cacheTotal is a counter vec with label "result", passed explicitly.
func New[T any](s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache[T] {
	return &Cache[T]{store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Get returns the cached snapshot for limit.
func (c *Cache[T]) Get(ctx context.Context, limit int) (T, bool) {
	var zero T
	key := cacheKey(limit)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached snapshot", zap.String("key", key), zap.Error(err))
		}
		c.inc("shared_miss")
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("Failed to parse cached snapshot", zap.String("key", key), zap.Error(err))
		c.inc("shared_miss")
		return zero, false
	}
	c.inc("shared_hit")
	return v, true
}

// Put stores v for limit with the configured TTL.
func (c *Cache[T]) Put(ctx context.Context, limit int, v T) {
	key := cacheKey(limit)
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache snapshot", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache[T]) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(limit int) string {
	return cacheKeyPrefix + strconv.Itoa(limit)
}
