package record

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"smartband-store/internal/domain"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	u, err := s.Load(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected empty record, got %+v err=%v", u, err)
	}

	want := domain.User{ID: "1", Name: "کاربر تست", Email: "test@example.com", Phone: "09123456789"}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || *got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := s.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if u, _ := s.Load(ctx); u != nil {
		t.Fatalf("expected record gone after delete")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory().For("s1"))
}

func TestMemorySessionsAreIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.For("a").Save(ctx, domain.User{ID: "1", Email: "a@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if u, _ := m.For("b").Load(ctx); u != nil {
		t.Fatalf("session b sees session a's record")
	}
}

func TestMemoryCorruptRecord(t *testing.T) {
	m := NewMemory()
	m.Put("s", []byte("{not json"))
	if _, err := m.For("s").Load(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}

	m.Put("s", []byte(`{"name":"x"}`))
	if _, err := m.For("s").Load(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for record without id, got %v", err)
	}
}

func TestRedisKey(t *testing.T) {
	if got := RedisKey("abc"); got != "session:abc:user" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	exerciseStore(t, NewRedis(rdb, 0, nil).For(uuid.NewString()))
}
