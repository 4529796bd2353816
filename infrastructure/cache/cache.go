package cache

import (
	"context"

	"github.com/elainedb/videofeed/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache creates a Redis client and verifies connectivity.
func NewCache(ctx context.Context, address, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// Store is a Redis-backed envelope store. Both operations are best-effort:
// a failed read is a miss and a failed write is a no-op, so a missing or
// unhealthy Redis degrades to "always fetch fresh".
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	if s.client == nil {
		return "", false
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).WithField("key", key).Debug("cache read failed")
		}
		return "", false
	}
	return val, true
}

func (s *Store) Set(ctx context.Context, key, value string) {
	if s.client == nil {
		return
	}
	// No physical expiry: freshness is decided by the envelope timestamp,
	// and entries are only ever replaced by overwrite-on-refresh.
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Debug("cache write failed")
	}
}
