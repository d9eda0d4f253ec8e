package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/sensor-data/internal/inspect"
	"github.com/rickgao/sensor-data/internal/model"
	"github.com/rickgao/sensor-data/internal/source"
)

var errNotMergeable = errors.New("inputs are not mergeable")

func newCheckCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "check [input-dir-or-glob]",
		Short: "Report on input files without merging",
		Long: `Reads every input file and prints its row count and timestamp range.
Exits non-zero when any file is unreadable or the headers differ.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("pattern") {
				a.cfg.Input.Pattern = pattern
			}
			if len(args) == 1 {
				a.cfg.Input.Dir, a.cfg.Input.Pattern = source.SplitInput(args[0], a.cfg.Input.Pattern)
			}
			return a.runCheck(cmd)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob for input files inside the input directory")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command) error {
	if err := a.validate(); err != nil {
		return err
	}

	schema, err := a.cfg.Schema.ModelSchema()
	if err != nil {
		return err
	}

	inputs, err := source.Discover(a.cfg.Input.Dir, a.cfg.Input.Pattern, a.cfg.Output.Path)
	if err != nil {
		return err
	}

	reports, err := inspect.Files(cmd.Context(), inputs, inspect.Options{
		TimestampColumn: a.cfg.Schema.TimestampColumn,
		Timestamps:      model.NewTimestampParser(a.cfg.Schema.TimestampLayouts),
		Concurrency:     a.cfg.Inspect.Concurrency,
		Schema:          schema,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tROWS\tFIRST\tLAST\tSTATUS")
	for _, rep := range reports {
		status := "ok"
		if rep.Err != nil {
			status = rep.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", rep.Path, rep.Rows, formatTime(rep.First), formatTime(rep.Last), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := inspect.Summarize(reports)
	fmt.Fprintf(a.stdout, "%d files, %d rows, %s .. %s\n", s.Files, s.Rows, formatTime(s.First), formatTime(s.Last))
	if !s.Mergeable {
		for _, p := range s.Problems {
			a.logger.Error("input problem", "problem", p)
		}
		return errNotMergeable
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
