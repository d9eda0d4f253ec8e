package merge

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/sensor-data/internal/model"
	"github.com/rickgao/sensor-data/internal/source"
	"github.com/rickgao/sensor-data/internal/writer"
)

// DefaultTimestampColumn is the column rows are ordered by.
const DefaultTimestampColumn = "timestamp"

// Options configures a Merger.
type Options struct {
	// TimestampColumn names the ordering column. Defaults to "timestamp".
	TimestampColumn string

	// TimestampLayouts are Go time layouts tried after Unix epoch seconds.
	// Defaults to model.DefaultTimestampLayouts.
	TimestampLayouts []string

	// Schema, when set, is the exact header every input must carry, and
	// each field is validated against its column type.
	Schema model.Schema

	// SkipUnreadable logs and skips unreadable inputs instead of failing.
	// Schema mismatches always fail.
	SkipUnreadable bool

	// RetainPrevious reads an existing output file as the first input, so
	// readings survive after their source files are rotated away.
	RetainPrevious bool
}

// Merger combines input files into one combined file.
type Merger struct {
	opts       Options
	timestamps model.TimestampParser
	logger     *slog.Logger
}

// New creates a Merger.
func New(opts Options, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = DefaultTimestampColumn
	}
	return &Merger{
		opts:       opts,
		timestamps: model.NewTimestampParser(opts.TimestampLayouts),
		logger:     logger,
	}
}

// Merge runs a merge with default options.
func Merge(ctx context.Context, inputs []string, output string) (model.Result, error) {
	return New(Options{}, nil).Merge(ctx, inputs, output)
}

// reading is a record with its parsed timestamp. Slices of readings are kept
// in input order (file, then row) until the stable sort.
type reading struct {
	rec model.Record
	ts  time.Time
}

// Merge reads every input, drops exact-duplicate rows, orders the rest by
// timestamp and atomically replaces output. Nothing is written unless every
// input was loaded (or skipped, with SkipUnreadable).
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) (model.Result, error) {
	start := time.Now()
	res := model.Result{RunID: uuid.New(), Output: output}
	logger := m.logger.With("run_id", res.RunID)

	if len(inputs) == 0 {
		return res, ErrEmptyInput
	}

	paths := inputs
	if m.opts.RetainPrevious && fileExists(output) && !containsPath(inputs, output) {
		paths = append([]string{output}, inputs...)
		logger.Debug("retaining previous output", "path", output)
	}

	logger.Info("merge started", "inputs", len(paths), "output", output)

	var (
		want model.Header
		rows []reading
	)
	if !m.opts.Schema.IsZero() {
		want = m.opts.Schema.Header()
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		header, loaded, err := m.loadFile(path, want)
		if err != nil {
			var unreadable *UnreadableFileError
			if m.opts.SkipUnreadable && errors.As(err, &unreadable) {
				logger.Warn("skipping unreadable input", "path", path, "error", err)
				res.FilesSkipped = append(res.FilesSkipped, path)
				continue
			}
			return res, err
		}

		if want == nil {
			want = header
		}
		rows = append(rows, loaded...)
		res.FilesRead++

		logger.Debug("read input", "path", path, "rows", len(loaded))
	}

	if res.FilesRead == 0 {
		return res, fmt.Errorf("all %d inputs unreadable: %w", len(paths), ErrEmptyInput)
	}

	kept, dups := dedup(rows)
	sortByTimestamp(kept)

	records := make([]model.Record, len(kept))
	for i, r := range kept {
		records[i] = r.rec
	}

	if err := writer.WriteCSVAtomic(output, want, records); err != nil {
		return res, &WriteError{Path: output, Err: err}
	}

	res.Header = want
	res.RowsWritten = len(records)
	res.DuplicatesDiscarded = dups

	logger.Info("merge complete",
		"rows", res.RowsWritten,
		"duplicates", res.DuplicatesDiscarded,
		"files_read", res.FilesRead,
		"files_skipped", len(res.FilesSkipped),
		"duration", time.Since(start),
	)
	return res, nil
}

// loadFile reads one input. want is the header every file must match, or
// nil for the first file.
func (m *Merger) loadFile(path string, want model.Header) (model.Header, []reading, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, nil, &UnreadableFileError{Path: path, Err: err}
	}
	defer r.Close()

	header := r.Header()
	if want != nil && !header.Equal(want) {
		return nil, nil, &SchemaMismatchError{Path: path, Want: want, Got: header}
	}

	tsIdx := header.Index(m.opts.TimestampColumn)
	if tsIdx < 0 {
		return nil, nil, &SchemaMismatchError{
			Path:   path,
			Want:   want,
			Got:    header,
			Reason: fmt.Sprintf("no %q column in header %q", m.opts.TimestampColumn, []string(header)),
		}
	}

	var rows []reading
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return header, rows, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, nil, &UnreadableFileError{Path: path, Line: perr.Line, Err: perr.Err}
			}
			return nil, nil, &UnreadableFileError{Path: path, Err: err}
		}

		if !m.opts.Schema.IsZero() {
			if err := m.opts.Schema.Check(rec, m.timestamps); err != nil {
				return nil, nil, &UnreadableFileError{Path: path, Line: r.Line(), Err: err}
			}
		}

		ts, err := m.timestamps.Parse(rec[tsIdx])
		if err != nil {
			return nil, nil, &UnreadableFileError{Path: path, Line: r.Line(), Err: err}
		}
		rows = append(rows, reading{rec: rec, ts: ts})
	}
}

// dedup keeps the first occurrence of every distinct record, preserving
// order, and returns the number of records dropped.
func dedup(rows []reading) ([]reading, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]reading, 0, len(rows))
	for _, r := range rows {
		key := r.rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	return kept, len(rows) - len(kept)
}

// sortByTimestamp orders rows by timestamp; equal timestamps keep their
// input order.
func sortByTimestamp(rows []reading) {
	slices.SortStableFunc(rows, func(a, b reading) int {
		return a.ts.Compare(b.ts)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func containsPath(paths []string, target string) bool {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = filepath.Clean(target)
	}
	for _, p := range paths {
		pa, err := filepath.Abs(p)
		if err != nil {
			pa = filepath.Clean(p)
		}
		if pa == abs {
			return true
		}
	}
	return false
}
