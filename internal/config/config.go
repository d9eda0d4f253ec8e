package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/sensor-data/internal/model"
)

// MergerConfig is the root configuration for a merge run.
type MergerConfig struct {
	Input    InputConfig   `yaml:"input"`
	Output   OutputConfig  `yaml:"output"`
	Schema   SchemaConfig  `yaml:"schema"`
	Merge    MergeConfig   `yaml:"merge"`
	Database DBConfig      `yaml:"database"`
	Export   ExportConfig  `yaml:"export"`
	Inspect  InspectConfig `yaml:"inspect"`
	Log      LogConfig     `yaml:"log"`
}

// InputConfig locates the sensor files to merge.
type InputConfig struct {
	Dir     string `yaml:"dir"`     // Directory searched with Pattern; empty means Pattern is a full glob
	Pattern string `yaml:"pattern"` // Glob for input files (e.g., "sensor_*.csv")
}

// OutputConfig locates the combined file.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// SchemaConfig declares the expected columns. With no columns the schema is
// taken from the first input's header.
type SchemaConfig struct {
	TimestampColumn  string         `yaml:"timestamp_column"`
	TimestampLayouts []string       `yaml:"timestamp_layouts"` // Go time layouts, tried after epoch seconds
	Columns          []ColumnConfig `yaml:"columns"`
}

// ColumnConfig is one declared column.
type ColumnConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // string, timestamp, number
}

// MergeConfig holds merge behaviour switches.
type MergeConfig struct {
	SkipUnreadable bool `yaml:"skip_unreadable"` // Log and skip unreadable inputs instead of failing
	RetainPrevious bool `yaml:"retain_previous"` // Read the existing output as the first input
}

// DBConfig holds the optional TimescaleDB export target.
// Export is disabled when Host is empty.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ExportConfig holds exporter batching settings.
type ExportConfig struct {
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// InspectConfig holds settings for the check command.
type InspectConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Enabled reports whether a database target is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// ModelSchema converts the declared columns. It returns a zero schema when no
// columns are declared.
func (s SchemaConfig) ModelSchema() (model.Schema, error) {
	cols := make([]model.Column, 0, len(s.Columns))
	for i, c := range s.Columns {
		ct, err := model.ParseColumnType(c.Type)
		if err != nil {
			return model.Schema{}, fmt.Errorf("schema.columns[%d]: %w", i, err)
		}
		cols = append(cols, model.Column{Name: c.Name, Type: ct})
	}
	return model.Schema{Columns: cols}, nil
}

// SlogLevel converts the configured level name.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
