package cache

import "context"

// NoopStore is the null-object store selected when no cache backend is
// configured. Every read misses and every write is discarded.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (NoopStore) Set(ctx context.Context, key, value string) {}
