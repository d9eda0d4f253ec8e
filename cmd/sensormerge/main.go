// Sensormerge merges sensor CSV files into one deduplicated, timestamp-ordered
// combined file.
//
// Usage:
//
//	sensormerge merge [output.csv] [input-dir-or-glob]
//	sensormerge check [input-dir-or-glob]
//	sensormerge export [combined.csv]
//	sensormerge version
//
// Every command accepts --config (optional YAML file) and --log-level. The
// exit code is 0 on success and 1 on any failure, with the failure kind
// printed to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickgao/sensor-data/internal/config"
	"github.com/rickgao/sensor-data/internal/merge"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return 1
	}
	return 0
}

// describe prefixes merge failures with their kind.
func describe(err error) string {
	if kind := merge.ErrorKind(err); kind != "" {
		return kind + ": " + err.Error()
	}
	return err.Error()
}

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.MergerConfig
	logger *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "sensormerge",
		Short: "Merge sensor CSV files into one deduplicated, time-ordered file",
		Long: `sensormerge combines sensor reading CSV files that share one header.

Rows that are equal in every field are kept once, the rest are ordered by
timestamp (ties keep input order), and the combined file is replaced
atomically. Re-running over unchanged inputs produces an identical file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML config file (optional)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newMergeCmd(a),
		newCheckCmd(a),
		newExportCmd(a),
		newVersionCmd(a),
	)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadWithDefaults(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	// Structured logs go to stderr; stdout carries command output.
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(a.logger)

	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		"input_dir", cfg.Input.Dir,
		"input_pattern", cfg.Input.Pattern,
		"output", cfg.Output.Path,
	)
	return nil
}

// validate checks the configuration after flag overrides.
func (a *app) validate() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
