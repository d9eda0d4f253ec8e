package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickgao/sensor-data/internal/model"
)

func TestLoad(t *testing.T) {
	yaml := `
input:
  dir: /var/lib/sensors
  pattern: "sensor_*.csv"
output:
  path: /var/lib/sensors/combined.csv
schema:
  timestamp_column: ts
  columns:
    - name: ts
      type: timestamp
    - name: sensor_id
    - name: value
      type: number
merge:
  skip_unreadable: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Input.Dir != "/var/lib/sensors" {
		t.Errorf("Input.Dir = %q, want %q", cfg.Input.Dir, "/var/lib/sensors")
	}
	if cfg.Output.Path != "/var/lib/sensors/combined.csv" {
		t.Errorf("Output.Path = %q, want %q", cfg.Output.Path, "/var/lib/sensors/combined.csv")
	}
	if !cfg.Merge.SkipUnreadable {
		t.Error("Merge.SkipUnreadable = false, want true")
	}
	if len(cfg.Schema.Columns) != 3 {
		t.Fatalf("len(Schema.Columns) = %d, want 3", len(cfg.Schema.Columns))
	}

	s, err := cfg.Schema.ModelSchema()
	if err != nil {
		t.Fatalf("ModelSchema failed: %v", err)
	}
	if s.Columns[0].Type != model.ColumnTimestamp || s.Columns[1].Type != model.ColumnString || s.Columns[2].Type != model.ColumnNumber {
		t.Errorf("ModelSchema() types = %v", s.Columns)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := LoadAndValidate("")
	if err != nil {
		t.Fatalf("LoadAndValidate(\"\") failed: %v", err)
	}
	if cfg.Output.Path != DefaultOutputPath {
		t.Errorf("Output.Path = %q, want default %q", cfg.Output.Path, DefaultOutputPath)
	}
	if cfg.Database.Enabled() {
		t.Error("Database.Enabled() = true for empty config")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
database:
  host: localhost
  name: sensors
  user: merger
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
database:
  host: localhost
  name: sensors
  user: merger
  password: pass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Input.Dir != DefaultInputDir {
		t.Errorf("Input.Dir = %q, want default %q", cfg.Input.Dir, DefaultInputDir)
	}
	if cfg.Input.Pattern != DefaultInputPattern {
		t.Errorf("Input.Pattern = %q, want default %q", cfg.Input.Pattern, DefaultInputPattern)
	}
	if cfg.Schema.TimestampColumn != DefaultTimestampColumn {
		t.Errorf("Schema.TimestampColumn = %q, want default %q", cfg.Schema.TimestampColumn, DefaultTimestampColumn)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Export.BatchSize != DefaultExportBatchSize {
		t.Errorf("Export.BatchSize = %d, want default %d", cfg.Export.BatchSize, DefaultExportBatchSize)
	}
	if cfg.Export.Timeout != DefaultExportTimeout {
		t.Errorf("Export.Timeout = %v, want default %v", cfg.Export.Timeout, DefaultExportTimeout)
	}
	if cfg.Inspect.Concurrency != DefaultInspectConcurrency {
		t.Errorf("Inspect.Concurrency = %d, want default %d", cfg.Inspect.Concurrency, DefaultInspectConcurrency)
	}
}

func TestApplyDefaults_GlobPattern(t *testing.T) {
	cfg := MergerConfig{Input: InputConfig{Pattern: "/srv/*/sensor_*.csv"}}
	cfg.ApplyDefaults()

	if cfg.Input.Dir != "" {
		t.Errorf("Input.Dir = %q, want empty when only a pattern is set", cfg.Input.Dir)
	}
}

func TestValidate(t *testing.T) {
	valid := func() MergerConfig {
		cfg := MergerConfig{}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*MergerConfig)
		wantErr string
	}{
		{
			name:    "defaults",
			mutate:  func(*MergerConfig) {},
			wantErr: "",
		},
		{
			name:    "bad glob",
			mutate:  func(c *MergerConfig) { c.Input.Pattern = "sensor_[.csv" },
			wantErr: `input.pattern "sensor_[.csv" is not a valid glob: syntax error in pattern`,
		},
		{
			name:    "missing output",
			mutate:  func(c *MergerConfig) { c.Output.Path = "" },
			wantErr: "output.path is required",
		},
		{
			name: "duplicate column",
			mutate: func(c *MergerConfig) {
				c.Schema.Columns = []ColumnConfig{{Name: "timestamp"}, {Name: "timestamp"}}
			},
			wantErr: `schema.columns[1].name "timestamp" is duplicated`,
		},
		{
			name: "timestamp column not declared",
			mutate: func(c *MergerConfig) {
				c.Schema.Columns = []ColumnConfig{{Name: "ts"}, {Name: "value"}}
			},
			wantErr: `schema.timestamp_column "timestamp" is not a declared column`,
		},
		{
			name: "unknown column type",
			mutate: func(c *MergerConfig) {
				c.Schema.Columns = []ColumnConfig{{Name: "timestamp", Type: "date"}}
			},
			wantErr: `schema.columns[0]: unknown column type "date"`,
		},
		{
			name: "missing database password",
			mutate: func(c *MergerConfig) {
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user"}
				applyDBDefaults(&c.Database)
			},
			wantErr: "database.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *MergerConfig) {
				c.Database = DBConfig{Host: "localhost", Port: 5432, Name: "db", User: "user", Password: "pass", MaxConns: 2, MinConns: 5}
			},
			wantErr: "database.min_conns (5) cannot exceed max_conns (2)",
		},
		{
			name:    "bad log level",
			mutate:  func(c *MergerConfig) { c.Log.Level = "trace" },
			wantErr: `log.level must be one of debug, info, warn, error, got "trace"`,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *MergerConfig) { c.Inspect.Concurrency = 0 },
			wantErr: "inspect.concurrency must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := (LogConfig{Level: tt.level}).SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportTimeoutYAML(t *testing.T) {
	path := writeTempFile(t, "export:\n  timeout: 90s\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Export.Timeout != 90*time.Second {
		t.Errorf("Export.Timeout = %v, want 90s", cfg.Export.Timeout)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
