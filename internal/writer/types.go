package writer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/sensor-data/internal/model"
)

// ExporterConfig contains configuration for the TimescaleDB exporter.
type ExporterConfig struct {
	// BatchSize is the number of rows sent per pgx.Batch.
	BatchSize int
}

// DefaultExporterConfig returns sensible defaults.
func DefaultExporterConfig() ExporterConfig {
	return ExporterConfig{
		BatchSize: 1000,
	}
}

// DB is the subset of *pgxpool.Pool the exporter uses.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Dataset is a combined dataset ready for export.
type Dataset struct {
	RunID           uuid.UUID
	Source          string // Path of the combined CSV
	Header          model.Header
	Records         []model.Record
	TimestampColumn string
	Timestamps      model.TimestampParser
	Duplicates      int // Duplicates discarded by the merge, 0 if unknown
}

// readingRow represents a row to be inserted into the sensor_readings table.
type readingRow struct {
	RowKey string    // hex SHA-256 of the record's dedup key
	Ts     time.Time // Parsed timestamp column
	Fields []byte    // JSONB: {"column": "value", ...}
	RunID  string    // UUID
}

// ExporterMetrics holds metrics for the exporter.
type ExporterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Batches   int64
}
