package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInputDir           = "data"
	DefaultInputPattern       = "sensor_*.csv"
	DefaultOutputPath         = "data/sensor_data_combined.csv"
	DefaultTimestampColumn    = "timestamp"
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultMinConns           = 1
	DefaultExportBatchSize    = 1000
	DefaultExportTimeout      = 5 * time.Minute
	DefaultInspectConcurrency = 4
	DefaultLogLevel           = "info"
)

// ApplyDefaults fills every unset field. CLI flags are applied afterwards, so
// an empty input dir set by a flag is not overwritten here.
func (c *MergerConfig) ApplyDefaults() {
	// Input defaults
	if c.Input.Dir == "" && c.Input.Pattern == "" {
		c.Input.Dir = DefaultInputDir
	}
	if c.Input.Pattern == "" {
		c.Input.Pattern = DefaultInputPattern
	}

	// Output defaults
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}

	// Schema defaults
	if c.Schema.TimestampColumn == "" {
		c.Schema.TimestampColumn = DefaultTimestampColumn
	}

	// Database defaults (only meaningful when a host is set)
	if c.Database.Enabled() {
		applyDBDefaults(&c.Database)
	}

	// Export defaults
	if c.Export.BatchSize == 0 {
		c.Export.BatchSize = DefaultExportBatchSize
	}
	if c.Export.Timeout == 0 {
		c.Export.Timeout = DefaultExportTimeout
	}

	// Inspect defaults
	if c.Inspect.Concurrency == 0 {
		c.Inspect.Concurrency = DefaultInspectConcurrency
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
