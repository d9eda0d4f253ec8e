// Package config loads the merger configuration from YAML.
//
// The file is optional: every field has a default, and CLI flags override
// individual values after loading. ${VAR} references are expanded from the
// environment before parsing, so database credentials can stay out of the
// file.
package config
