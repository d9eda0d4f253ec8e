package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rickgao/sensor-data/internal/database"
	"github.com/rickgao/sensor-data/internal/model"
	"github.com/rickgao/sensor-data/internal/source"
	"github.com/rickgao/sensor-data/internal/writer"
)

var errNoDatabase = errors.New("export requires database.host in the config file")

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [combined.csv]",
		Short: "Export a combined file to TimescaleDB",
		Long: `Inserts every row of the combined file into sensor_readings. Rows already
exported (same content) are skipped, so exporting twice is harmless.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Output.Path = args[0]
			}
			if err := a.validate(); err != nil {
				return err
			}
			if !a.cfg.Database.Enabled() {
				return errNoDatabase
			}
			_, err := a.exportFile(cmd.Context(), a.cfg.Output.Path, writer.Dataset{RunID: uuid.New()})
			return err
		},
	}
}

// exportFile reads a combined file and exports it. ds carries the run ID and
// duplicate count; the remaining fields are filled here.
func (a *app) exportFile(ctx context.Context, path string, ds writer.Dataset) (writer.ExporterMetrics, error) {
	header, records, err := source.ReadAll(path)
	if err != nil {
		return writer.ExporterMetrics{}, fmt.Errorf("read %s: %w", path, err)
	}
	ds.Source = path
	ds.Header = header
	ds.Records = records
	ds.TimestampColumn = a.cfg.Schema.TimestampColumn
	ds.Timestamps = model.NewTimestampParser(a.cfg.Schema.TimestampLayouts)

	if a.cfg.Export.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Export.Timeout)
		defer cancel()
	}

	a.logger.Info("connecting to database",
		"host", a.cfg.Database.Host,
		"port", a.cfg.Database.Port,
		"database", a.cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, a.cfg.Database)
	if err != nil {
		return writer.ExporterMetrics{}, fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return writer.ExporterMetrics{}, err
	}

	exp := writer.NewExporter(writer.ExporterConfig{BatchSize: a.cfg.Export.BatchSize}, pool, a.logger)
	stats, err := exp.Export(ctx, ds)
	if err != nil {
		return stats, err
	}

	fmt.Fprintf(a.stdout, "exported %d rows from %s (%d new, %d already present)\n",
		len(records), path, stats.Inserts, stats.Conflicts)
	return stats, nil
}
