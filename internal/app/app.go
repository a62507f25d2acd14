// Package app assembles the discovery services from configuration. It is the
// composition root shared by the API server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kailas-cloud/discovery/internal/config"
	"github.com/kailas-cloud/discovery/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/discovery/internal/db/redis"
	"github.com/kailas-cloud/discovery/internal/metrics"
	"github.com/kailas-cloud/discovery/internal/repository/opportunity"
	"github.com/kailas-cloud/discovery/internal/repository/reputation"
	searchrepo "github.com/kailas-cloud/discovery/internal/repository/search"
	"github.com/kailas-cloud/discovery/internal/repository/snapshotcache"
	discoveryuc "github.com/kailas-cloud/discovery/internal/usecase/discovery"
	healthuc "github.com/kailas-cloud/discovery/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/discovery/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/discovery/internal/usecase/search"
)

// App holds the wired services and the connections they own.
type App struct {
	Discovery *discoveryuc.Service
	Search    *searchuc.Service
	Health    *healthuc.Service
	// Indexing is nil when the search index is disabled.
	Indexing *indexinguc.Service

	pool  *pgxpool.Pool
	index *dbRedis.Store
	rdb   *goredis.Client
}

// New connects to every configured backend and builds the services. The relational
// store is required; an unreachable reputation source only disables that signal.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterSearchMetrics()

	pool, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	a := &App{pool: pool}
	if err := postgres.WaitForReady(ctx, pool, seconds(cfg.Postgres.ReadinessTimeout)); err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("Connected to postgres")

	store := opportunity.New(pool)

	var (
		index  searchuc.Index
		shared discoveryuc.SharedCache
		pinger healthuc.Pinger
	)
	if cfg.Index.Enabled {
		a.index, err = dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Index.Addrs, Password: cfg.Index.Password})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("search index: %w", err)
		}
		if err := a.index.WaitForReady(ctx, seconds(cfg.Index.ReadinessTimeout)); err != nil {
			// the relational path serves every query; start degraded
			logger.Warn("Search index not ready, serving from postgres", zap.Error(err))
		} else {
			logger.Info("Connected to search index", zap.Strings("addrs", cfg.Index.Addrs))
		}
		index = searchrepo.New(a.index)
		shared = snapshotcache.New[discoveryuc.Snapshot](
			a.index, seconds(cfg.Snapshot.TTLSec), metrics.SnapshotCacheTotal, logger)
		pinger = a.index
		a.Indexing = indexinguc.New(store, searchrepo.NewWriter(a.index), cfg.Indexing.BatchSize, logger)
	}

	var rep searchuc.ReputationProvider
	if cfg.Reputation.RedisURL != "" {
		a.rdb, err = reputation.Dial(ctx, cfg.Reputation.RedisURL)
		if err != nil {
			logger.Warn("Reputation source unavailable, signal disabled", zap.Error(err))
		} else {
			rep = reputation.New(a.rdb, cfg.Reputation.Key)
		}
	}

	a.Search = searchuc.New(index, store, rep, searchuc.Options{
		QueryTimeout: time.Duration(cfg.Search.QueryTimeoutMs) * time.Millisecond,
		Concurrency:  cfg.Search.AggregateConcurrency,
	})
	a.Discovery = discoveryuc.New(a.Search, shared, discoveryuc.Options{SnapshotTTL: seconds(cfg.Snapshot.TTLSec)})
	a.Health = healthuc.New(pool, pinger)
	return a, nil
}

// Close releases every connection. Safe to call on a partially built App.
func (a *App) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.index != nil {
		a.index.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
