package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *MergerConfig) Validate() error {
	if c.Input.Pattern == "" {
		return errors.New("input.pattern is required")
	}
	if _, err := filepath.Match(c.Input.Pattern, ""); err != nil {
		return fmt.Errorf("input.pattern %q is not a valid glob: %w", c.Input.Pattern, err)
	}

	if c.Output.Path == "" {
		return errors.New("output.path is required")
	}

	if err := c.Schema.validate(); err != nil {
		return err
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Export.BatchSize < 1 {
		return errors.New("export.batch_size must be >= 1")
	}
	if c.Export.Timeout < 0 {
		return errors.New("export.timeout must be >= 0")
	}

	if c.Inspect.Concurrency < 1 {
		return errors.New("inspect.concurrency must be >= 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

func (s *SchemaConfig) validate() error {
	if s.TimestampColumn == "" {
		return errors.New("schema.timestamp_column is required")
	}
	if len(s.Columns) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(s.Columns))
	for i, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema.columns[%d].name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema.columns[%d].name %q is duplicated", i, c.Name)
		}
		seen[c.Name] = true
	}
	if !seen[s.TimestampColumn] {
		return fmt.Errorf("schema.timestamp_column %q is not a declared column", s.TimestampColumn)
	}

	_, err := s.ModelSchema()
	return err
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
