package database

import (
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantOpen int
		wantIdle int
	}{
		{"sqlite", Config{}, 1, 1},
		{"postgres", Config{Driver: DriverPostgres, DSN: "postgres://x"}, 25, 5},
		{"explicit", Config{Driver: DriverPostgres, DSN: "postgres://x", MaxOpenConns: 3}, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if cfg.MaxOpenConns != tt.wantOpen || cfg.MaxIdleConns != tt.wantIdle {
				t.Errorf("pool = %d/%d, want %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns, tt.wantOpen, tt.wantIdle)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"driver", func(c *Config) { c.Driver = "mysql" }, "unsupported"},
		{"dsn", func(c *Config) { c.DSN = "" }, "DSN"},
		{"idle", func(c *Config) { c.MaxIdleConns = 9 }, "max_idle_conns"},
		{"lifetime", func(c *Config) { c.ConnMaxLifetime = "forever" }, "conn_max_lifetime"},
		{"slow", func(c *Config) { c.SlowQueryThreshold = "x" }, "slow_query_threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"data.db", "data.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
		{"file:data.db?cache=shared", "file:data.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
		{"data.db?_foreign_keys=on&_busy_timeout=1&_journal_mode=DELETE", "data.db?_foreign_keys=on&_busy_timeout=1&_journal_mode=DELETE"},
	}
	for _, tt := range tests {
		if got := SQLiteDSN(tt.in); got != tt.want {
			t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
