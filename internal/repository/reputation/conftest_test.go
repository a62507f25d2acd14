package reputation

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// mockHashReader implements hashReader for tests.
type mockHashReader struct {
	hmgetFn func(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

func (m *mockHashReader) HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd {
	if m.hmgetFn != nil {
		return m.hmgetFn(ctx, key, fields...)
	}
	return redis.NewSliceResult(make([]any, len(fields)), nil)
}
