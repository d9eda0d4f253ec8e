package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/sensor-data/internal/merge"
	"github.com/rickgao/sensor-data/internal/source"
	"github.com/rickgao/sensor-data/internal/writer"
)

type mergeFlags struct {
	pattern         string
	timestampColumn string
	skipUnreadable  bool
	retainPrevious  bool
	export          bool
}

func newMergeCmd(a *app) *cobra.Command {
	var f mergeFlags

	cmd := &cobra.Command{
		Use:   "merge [output.csv] [input-dir-or-glob]",
		Short: "Merge input files into the combined file",
		Long: `Reads every input file, drops exact-duplicate rows, orders the rest by
timestamp and atomically replaces the combined file.

A directory argument is searched with --pattern (default "sensor_*.csv");
any other argument is used as a glob. The combined file itself is never
picked up as an input unless --retain-previous is set.

Example:
  sensormerge merge data/sensor_data_combined.csv data/`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyMergeFlags(cmd, f, args)
			return a.runMerge(cmd, f.export)
		},
	}

	cmd.Flags().StringVar(&f.pattern, "pattern", "", "glob for input files inside the input directory")
	cmd.Flags().StringVar(&f.timestampColumn, "timestamp-column", "", "column rows are ordered by")
	cmd.Flags().BoolVar(&f.skipUnreadable, "skip-unreadable", false, "skip unreadable inputs instead of failing")
	cmd.Flags().BoolVar(&f.retainPrevious, "retain-previous", false, "read the existing combined file as the first input")
	cmd.Flags().BoolVar(&f.export, "export", false, "export the combined file to the configured database after merging")

	return cmd
}

// applyMergeFlags overrides config values with explicit flags and arguments.
func (a *app) applyMergeFlags(cmd *cobra.Command, f mergeFlags, args []string) {
	flags := cmd.Flags()
	if flags.Changed("pattern") {
		a.cfg.Input.Pattern = f.pattern
	}
	if flags.Changed("timestamp-column") {
		a.cfg.Schema.TimestampColumn = f.timestampColumn
	}
	if flags.Changed("skip-unreadable") {
		a.cfg.Merge.SkipUnreadable = f.skipUnreadable
	}
	if flags.Changed("retain-previous") {
		a.cfg.Merge.RetainPrevious = f.retainPrevious
	}

	if len(args) >= 1 {
		a.cfg.Output.Path = args[0]
	}
	if len(args) == 2 {
		a.cfg.Input.Dir, a.cfg.Input.Pattern = source.SplitInput(args[1], a.cfg.Input.Pattern)
	}
}

func (a *app) runMerge(cmd *cobra.Command, export bool) error {
	if err := a.validate(); err != nil {
		return err
	}
	if export && !a.cfg.Database.Enabled() {
		return errNoDatabase
	}

	schema, err := a.cfg.Schema.ModelSchema()
	if err != nil {
		return err
	}

	inputs, err := source.Discover(a.cfg.Input.Dir, a.cfg.Input.Pattern, a.cfg.Output.Path)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		a.logger.Warn("no input files found",
			"dir", a.cfg.Input.Dir,
			"pattern", a.cfg.Input.Pattern,
		)
	}

	m := merge.New(merge.Options{
		TimestampColumn:  a.cfg.Schema.TimestampColumn,
		TimestampLayouts: a.cfg.Schema.TimestampLayouts,
		Schema:           schema,
		SkipUnreadable:   a.cfg.Merge.SkipUnreadable,
		RetainPrevious:   a.cfg.Merge.RetainPrevious,
	}, a.logger)

	res, err := m.Merge(cmd.Context(), inputs, a.cfg.Output.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "merged %d rows from %d files into %s (%d duplicates discarded)\n",
		res.RowsWritten, res.FilesRead, res.Output, res.DuplicatesDiscarded)
	for _, p := range res.FilesSkipped {
		fmt.Fprintf(a.stdout, "skipped unreadable input %s\n", p)
	}

	if !export {
		return nil
	}
	_, err = a.exportFile(cmd.Context(), res.Output, writer.Dataset{
		RunID:      res.RunID,
		Duplicates: res.DuplicatesDiscarded,
	})
	return err
}
