package database

import (
	"testing"

	"github.com/rickgao/sensor-data/internal/config"
)

func TestPoolConfig(t *testing.T) {
	base := config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "sensors",
		User:     "merger",
		Password: "secret",
		SSLMode:  "disable",
	}

	tests := []struct {
		name     string
		maxConns int
		minConns int
		wantMax  int32
		wantMin  int32
	}{
		{"configured", 4, 1, 4, 1},
		{"min above max", 2, 5, 2, 2},
		{"negative min", 3, -1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.MaxConns = tt.maxConns
			cfg.MinConns = tt.minConns

			got, err := PoolConfig(cfg)
			if err != nil {
				t.Fatalf("PoolConfig() error = %v", err)
			}
			if got.MaxConns != tt.wantMax || got.MinConns != tt.wantMin {
				t.Errorf("conns = (max %d, min %d), want (max %d, min %d)", got.MaxConns, got.MinConns, tt.wantMax, tt.wantMin)
			}
			if tz := got.ConnConfig.RuntimeParams["timezone"]; tz != "UTC" {
				t.Errorf("timezone = %q, want UTC", tz)
			}
			if app := got.ConnConfig.RuntimeParams["application_name"]; app != ApplicationName {
				t.Errorf("application_name = %q, want %q", app, ApplicationName)
			}
			if got.ConnConfig.Database != "sensors" {
				t.Errorf("Database = %q, want sensors", got.ConnConfig.Database)
			}
		})
	}
}
