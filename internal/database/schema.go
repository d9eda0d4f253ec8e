package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schemaStatements create the export tables. The hypertable call is skipped
// on plain PostgreSQL. Unique keys on sensor_readings must include ts, the
// hypertable partition column.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sensor_readings (
		row_key     TEXT        NOT NULL,
		ts          TIMESTAMPTZ NOT NULL,
		fields      JSONB       NOT NULL,
		run_id      UUID        NOT NULL,
		exported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (row_key, ts)
	)`,
	`CREATE INDEX IF NOT EXISTS sensor_readings_ts_idx ON sensor_readings (ts)`,
	`CREATE TABLE IF NOT EXISTS merge_runs (
		run_id               UUID        PRIMARY KEY,
		source               TEXT        NOT NULL,
		rows_total           INTEGER     NOT NULL,
		rows_inserted        BIGINT      NOT NULL,
		duplicates_discarded INTEGER     NOT NULL,
		exported_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`DO $$
	BEGIN
		IF EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb') THEN
			PERFORM create_hypertable('sensor_readings', 'ts', if_not_exists => TRUE, migrate_data => TRUE);
		END IF;
	END
	$$`,
}

// EnsureSchema creates the export tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
