// Package reputation reads owner trust scores from a Redis hash.
package reputation

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the hash mapping owner id to a 0-100 trust score.
const DefaultKey = "discovery:reputation"

// hashReader is the consumer interface over a go-redis client.
type hashReader interface {
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

// Repo implements usecase/search.ReputationProvider.
type Repo struct {
	rdb hashReader
	key string
}

// New creates a reputation repository reading from key.
func New(rdb hashReader, key string) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{rdb: rdb, key: key}
}

// Dial parses redisURL and verifies connectivity.
func Dial(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Scores returns the trust score of every owner that has one, clamped to [0,100].
// Owners without a parsable score are absent from the result.
func (r *Repo) Scores(ctx context.Context, ownerIDs []string) (map[string]float64, error) {
	if len(ownerIDs) == 0 {
		return map[string]float64{}, nil
	}
	vals, err := r.rdb.HMGet(ctx, r.key, ownerIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", r.key, err)
	}

	out := make(map[string]float64, len(vals))
	for i, v := range vals {
		if i >= len(ownerIDs) {
			break
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			continue
		}
		out[ownerIDs[i]] = min(max(f, 0), 100)
	}
	return out, nil
}
