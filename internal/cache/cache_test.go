package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWindowCounterIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := Connect(ctx, "redis://"+addr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer rdb.Close()

	w := NewWindowCounter(rdb, "test:rl:")
	key := uuid.NewString()
	for i := int64(1); i <= 3; i++ {
		n, reset, err := w.Hit(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("hit: %v", err)
		}
		if n != i {
			t.Fatalf("expected count %d, got %d", i, n)
		}
		if time.Until(reset) <= 0 {
			t.Fatalf("expected reset in the future")
		}
	}
}

func TestConnectRejectsBadURL(t *testing.T) {
	if _, err := Connect(context.Background(), "::not a url"); err == nil {
		t.Fatalf("expected error")
	}
}
