package repository

import "context"

// ICacheStore is a generic string key-value store used for cache envelopes.
// Both operations are best-effort: any underlying storage failure is
// swallowed, so a failed read is a miss and a failed write is a no-op. The
// system degrades to "always fetch fresh" when the backend is absent.
type ICacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}
