package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/elainedb/videofeed/domain/repository"
)

// Envelope pairs a cached payload with the instant it was stored, so readers
// can compute staleness against their own TTL.
type Envelope[T any] struct {
	Timestamp time.Time `json:"ts"`
	Payload   T         `json:"data"`
}

// ReadEnvelope returns the payload stored under key if it exists and is
// younger than ttl. A missing entry, a corrupt entry, or an expired entry all
// report a miss; expired entries are left in place to be overwritten on the
// next refresh.
func ReadEnvelope[T any](ctx context.Context, store repository.ICacheStore, key string, ttl time.Duration) (T, bool) {
	var env Envelope[T]
	raw, ok := store.Get(ctx, key)
	if !ok {
		return env.Payload, false
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return env.Payload, false
	}
	if env.Timestamp.IsZero() || time.Since(env.Timestamp) >= ttl {
		var zero T
		return zero, false
	}
	return env.Payload, true
}

// WriteEnvelope stores payload under key stamped with the current time.
// Serialization failures are swallowed like any other storage failure.
func WriteEnvelope[T any](ctx context.Context, store repository.ICacheStore, key string, payload T) {
	raw, err := json.Marshal(Envelope[T]{Timestamp: time.Now().UTC(), Payload: payload})
	if err != nil {
		return
	}
	store.Set(ctx, key, string(raw))
}
