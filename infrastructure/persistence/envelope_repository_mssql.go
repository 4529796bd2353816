package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elainedb/videofeed/infrastructure/logger"
)

// EnsureEnvelopeSchemaMSSQL creates the cache table on MSSQL if not exists.
func EnsureEnvelopeSchemaMSSQL(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.cache_envelopes') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.cache_envelopes (
        cache_key NVARCHAR(450) NOT NULL PRIMARY KEY,
        payload NVARCHAR(MAX) NOT NULL,
        updated_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create cache_envelopes table (mssql): %w", err)
	}
	return nil
}

// EnvelopeRepositoryMSSQL implements the envelope store on MSSQL.
type EnvelopeRepositoryMSSQL struct{ db *sql.DB }

func NewEnvelopeRepositoryMSSQL(db *sql.DB) *EnvelopeRepositoryMSSQL {
	return &EnvelopeRepositoryMSSQL{db: db}
}

func (r *EnvelopeRepositoryMSSQL) Get(ctx context.Context, key string) (string, bool) {
	if r.db == nil {
		return "", false
	}
	row := r.db.QueryRowContext(ctx, `SELECT payload FROM dbo.cache_envelopes WHERE cache_key=@p1`, key)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err != sql.ErrNoRows {
			logger.GetLogger().WithField("error", err).WithField("key", key).Debug("envelope read failed")
		}
		return "", false
	}
	return payload, true
}

func (r *EnvelopeRepositoryMSSQL) Set(ctx context.Context, key, value string) {
	if r.db == nil {
		return
	}
	q := `MERGE dbo.cache_envelopes AS t
          USING (SELECT @p1 AS cache_key) AS s ON t.cache_key = s.cache_key
          WHEN MATCHED THEN UPDATE SET payload=@p2, updated_at=SYSDATETIMEOFFSET()
          WHEN NOT MATCHED THEN INSERT (cache_key, payload, updated_at) VALUES (@p1, @p2, SYSDATETIMEOFFSET());`
	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Debug("envelope write failed")
	}
}
