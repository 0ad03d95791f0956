package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits per key in fixed windows.
type WindowCounter struct {
	rdb    redis.Cmdable
	prefix string
}

func NewWindowCounter(rdb redis.Cmdable, prefix string) *WindowCounter {
	return &WindowCounter{rdb: rdb, prefix: prefix}
}

// Hit records one hit for key and returns the count in the current window and
// when the window resets.
func (w *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := w.prefix + key
	pipe := w.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}
