package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elainedb/videofeed/infrastructure/logger"
)

// EnsureEnvelopeSchema creates the cache table if it does not exist. The
// store is a plain key/value table: freshness lives inside the stored
// envelope, and rows are only ever replaced by overwrite-on-refresh.
func EnsureEnvelopeSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS cache_envelopes (
        cache_key TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create cache_envelopes table: %w", err)
	}
	return nil
}

// EnvelopeRepository implements the envelope store on PostgreSQL. Like every
// store implementation it is best-effort: a failed read is a miss and a
// failed write is a no-op.
type EnvelopeRepository struct{ db *sql.DB }

func NewEnvelopeRepository(db *sql.DB) *EnvelopeRepository {
	return &EnvelopeRepository{db: db}
}

func (r *EnvelopeRepository) Get(ctx context.Context, key string) (string, bool) {
	if r.db == nil {
		return "", false
	}
	row := r.db.QueryRowContext(ctx, `SELECT payload FROM cache_envelopes WHERE cache_key=$1`, key)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err != sql.ErrNoRows {
			logger.GetLogger().WithField("error", err).WithField("key", key).Debug("envelope read failed")
		}
		return "", false
	}
	return payload, true
}

func (r *EnvelopeRepository) Set(ctx context.Context, key, value string) {
	if r.db == nil {
		return
	}
	q := `INSERT INTO cache_envelopes(cache_key, payload, updated_at)
          VALUES ($1, $2, NOW())
          ON CONFLICT (cache_key) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Debug("envelope write failed")
	}
}
