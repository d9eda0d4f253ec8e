package writer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/sensor-data/internal/model"
)

const insertReadingSQL = `
	INSERT INTO sensor_readings (row_key, ts, fields, run_id, exported_at)
	VALUES ($1, $2, $3, $4::uuid, now())
	ON CONFLICT (row_key, ts) DO NOTHING
`

const insertRunSQL = `
	INSERT INTO merge_runs (run_id, source, rows_total, rows_inserted, duplicates_discarded, exported_at)
	VALUES ($1::uuid, $2, $3, $4, $5, now())
	ON CONFLICT (run_id) DO NOTHING
`

// Exporter writes a combined dataset to TimescaleDB.
type Exporter struct {
	cfg    ExporterConfig
	db     DB
	logger *slog.Logger

	metrics ExporterMetrics
}

// NewExporter creates a new Exporter.
func NewExporter(cfg ExporterConfig, db DB, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultExporterConfig().BatchSize
	}
	return &Exporter{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Stats returns current metrics.
func (e *Exporter) Stats() ExporterMetrics {
	return e.metrics
}

// Export inserts every record of ds and records the run in merge_runs.
// Rows already present (same row key) are counted as conflicts.
func (e *Exporter) Export(ctx context.Context, ds Dataset) (ExporterMetrics, error) {
	start := time.Now()
	before := e.metrics

	if dup := duplicateColumn(ds.Header); dup != "" {
		return ExporterMetrics{}, fmt.Errorf("duplicate column %q in header", dup)
	}

	tsIdx := ds.Header.Index(ds.TimestampColumn)
	if tsIdx < 0 {
		return ExporterMetrics{}, fmt.Errorf("timestamp column %q not in header", ds.TimestampColumn)
	}

	batch := make([]readingRow, 0, e.cfg.BatchSize)
	for i, rec := range ds.Records {
		row, err := e.transform(ds, tsIdx, rec)
		if err != nil {
			return e.delta(before), fmt.Errorf("record %d: %w", i+1, err)
		}
		batch = append(batch, row)

		if len(batch) >= e.cfg.BatchSize {
			if err := e.flush(ctx, batch); err != nil {
				return e.delta(before), err
			}
			batch = batch[:0]
		}
	}
	if err := e.flush(ctx, batch); err != nil {
		return e.delta(before), err
	}

	got := e.delta(before)
	if _, err := e.db.Exec(ctx, insertRunSQL,
		ds.RunID.String(), ds.Source, len(ds.Records), got.Inserts, ds.Duplicates,
	); err != nil {
		e.metrics.Errors++
		return e.delta(before), fmt.Errorf("record merge run: %w", err)
	}

	e.logger.Info("exported readings",
		"run_id", ds.RunID,
		"rows", len(ds.Records),
		"inserted", got.Inserts,
		"conflicts", got.Conflicts,
		"batches", got.Batches,
		"duration", time.Since(start),
	)
	return got, nil
}

func (e *Exporter) delta(before ExporterMetrics) ExporterMetrics {
	return ExporterMetrics{
		Inserts:   e.metrics.Inserts - before.Inserts,
		Conflicts: e.metrics.Conflicts - before.Conflicts,
		Errors:    e.metrics.Errors - before.Errors,
		Batches:   e.metrics.Batches - before.Batches,
	}
}

// transform converts a record to a readingRow.
func (e *Exporter) transform(ds Dataset, tsIdx int, rec model.Record) (readingRow, error) {
	if len(rec) != len(ds.Header) {
		return readingRow{}, fmt.Errorf("got %d fields, want %d", len(rec), len(ds.Header))
	}

	ts, err := ds.Timestamps.Parse(rec[tsIdx])
	if err != nil {
		return readingRow{}, err
	}

	fields, err := fieldsToJSONB(ds.Header, rec)
	if err != nil {
		return readingRow{}, err
	}

	return readingRow{
		RowKey: rowKey(rec),
		Ts:     ts,
		Fields: fields,
		RunID:  ds.RunID.String(),
	}, nil
}

// flush sends one batch.
func (e *Exporter) flush(ctx context.Context, rows []readingRow) error {
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()

	conflicts, err := e.batchInsert(ctx, rows)
	if err != nil {
		e.logger.Error("batch insert failed", "error", err, "count", len(rows))
		e.metrics.Errors++
		return fmt.Errorf("insert readings: %w", err)
	}

	e.metrics.Inserts += int64(len(rows) - conflicts)
	e.metrics.Conflicts += int64(conflicts)
	e.metrics.Batches++

	e.logger.Debug("flushed readings",
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (e *Exporter) batchInsert(ctx context.Context, rows []readingRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertReadingSQL, r.RowKey, r.Ts, r.Fields, r.RunID)
	}

	results := e.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}

// rowKey hashes the full-row dedup key.
func rowKey(rec model.Record) string {
	sum := sha256.Sum256([]byte(rec.Key()))
	return hex.EncodeToString(sum[:])
}

// fieldsToJSONB converts a record to a JSON object keyed by column name.
// Column names must be unique.
func fieldsToJSONB(header model.Header, rec model.Record) ([]byte, error) {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		fields[name] = rec[i]
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return data, nil
}

func duplicateColumn(header model.Header) string {
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, ok := seen[name]; ok {
			return name
		}
		seen[name] = struct{}{}
	}
	return ""
}
