package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/sensor-data/internal/model"
	"github.com/rickgao/sensor-data/internal/source"
)

// Options configures an inspection.
type Options struct {
	TimestampColumn string
	Timestamps      model.TimestampParser
	Concurrency     int

	// Schema, when set, is the header every file must carry, and each field
	// is checked against its column type, as a merge would.
	Schema model.Schema
}

// FileReport describes one input file.
type FileReport struct {
	Path   string
	Header model.Header
	Rows   int
	First  time.Time // Earliest timestamp, zero if no rows
	Last   time.Time // Latest timestamp, zero if no rows
	Err    error     // First problem found, nil if the file is readable
}

// Summary aggregates reports.
type Summary struct {
	Files     int
	Rows      int
	First     time.Time
	Last      time.Time
	Problems  []string
	Mergeable bool
}

// Files inspects every path. The returned error is non-nil only when ctx is
// canceled; per-file problems are in each FileReport.Err.
func Files(ctx context.Context, paths []string, opts Options) ([]FileReport, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = "timestamp"
	}

	reports := make([]FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = inspectFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func inspectFile(path string, opts Options) FileReport {
	rep := FileReport{Path: path}

	r, err := source.Open(path)
	if err != nil {
		rep.Err = err
		return rep
	}
	defer r.Close()

	rep.Header = r.Header()
	if !opts.Schema.IsZero() {
		if want := opts.Schema.Header(); !rep.Header.Equal(want) {
			rep.Err = fmt.Errorf("header %q, want declared %q", []string(rep.Header), []string(want))
			return rep
		}
	}

	tsIdx := rep.Header.Index(opts.TimestampColumn)
	if tsIdx < 0 {
		rep.Err = fmt.Errorf("no %q column", opts.TimestampColumn)
		return rep
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rep
		}
		if err != nil {
			rep.Err = err
			return rep
		}

		if !opts.Schema.IsZero() {
			if err := opts.Schema.Check(rec, opts.Timestamps); err != nil {
				rep.Err = fmt.Errorf("line %d: %w", r.Line(), err)
				return rep
			}
		}

		ts, err := opts.Timestamps.Parse(rec[tsIdx])
		if err != nil {
			rep.Err = fmt.Errorf("line %d: %w", r.Line(), err)
			return rep
		}

		if rep.Rows == 0 || ts.Before(rep.First) {
			rep.First = ts
		}
		if rep.Rows == 0 || ts.After(rep.Last) {
			rep.Last = ts
		}
		rep.Rows++
	}
}

// Summarize checks that the reports describe a mergeable set: at least one
// file, no per-file errors, one shared header.
func Summarize(reports []FileReport) Summary {
	s := Summary{Files: len(reports)}

	var want model.Header
	for _, rep := range reports {
		if rep.Err != nil {
			s.Problems = append(s.Problems, fmt.Sprintf("%s: %v", rep.Path, rep.Err))
			continue
		}
		if want == nil {
			want = rep.Header
		} else if !rep.Header.Equal(want) {
			s.Problems = append(s.Problems, fmt.Sprintf("%s: header %q, want %q", rep.Path, []string(rep.Header), []string(want)))
			continue
		}

		s.Rows += rep.Rows
		if rep.Rows == 0 {
			continue
		}
		if s.First.IsZero() || rep.First.Before(s.First) {
			s.First = rep.First
		}
		if s.Last.IsZero() || rep.Last.After(s.Last) {
			s.Last = rep.Last
		}
	}

	if s.Files == 0 {
		s.Problems = append(s.Problems, "no input files")
	}
	s.Mergeable = len(s.Problems) == 0
	return s
}
