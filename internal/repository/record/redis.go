package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"smartband-store/internal/domain"
)

type Redis struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis stores records under session:<id>:user. A zero ttl keeps them
// until deleted.
func NewRedis(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Redis{rdb: rdb, ttl: ttl, logger: logger}
}

func (r *Redis) For(sessionID string) Store {
	return &redisStore{parent: r, key: RedisKey(sessionID)}
}

func RedisKey(sessionID string) string {
	return "session:" + sessionID + ":" + Key
}

type redisStore struct {
	parent *Redis
	key    string
}

func (s *redisStore) Load(ctx context.Context) (*domain.User, error) {
	raw, err := s.parent.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.parent.logger.Error("record load failed", "key", s.key, "err", err)
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	return decode(raw)
}

func (s *redisStore) Save(ctx context.Context, user domain.User) error {
	raw, err := encode(user)
	if err != nil {
		return err
	}
	if err := s.parent.rdb.Set(ctx, s.key, raw, s.parent.ttl).Err(); err != nil {
		s.parent.logger.Error("record save failed", "key", s.key, "err", err)
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context) error {
	if err := s.parent.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", s.key, err)
	}
	return nil
}
