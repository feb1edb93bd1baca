package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type nested struct {
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server        nested `mapstructure:"server"`
	Dir           string `mapstructure:"dir"`
}

func TestServiceConfigDefaultsAndValidate(t *testing.T) {
	cfg := ServiceConfig{}
	cfg.ApplyDefaults()
	if cfg.Name != "voxpersona" || cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Logging.ServiceName != "voxpersona" {
		t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Environment = "qa"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "environment") {
		t.Errorf("expected environment error, got %v", err)
	}
}

func TestStructKeys(t *testing.T) {
	got := StructKeys(&testConfig{})
	want := []string{
		"name", "environment", "version", "debug",
		"logging.service_name", "logging.level", "logging.format", "logging.output",
		"logging.no_color", "logging.timestamp", "logging.caller",
		"server.port", "server.timeout", "dir",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StructKeys =\n%v\nwant\n%v", got, want)
	}
}

func TestLoadConfigWithYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "name: voxpersona\nserver:\n  port: 8080\n  timeout: 30s\ndir: /tmp/a\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOXPERSONA_SERVER_PORT", "9090")

	var cfg testConfig
	if err := LoadConfig("voxpersona", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("env override not applied: port = %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Dir != "/tmp/a" || cfg.Name != "voxpersona" {
		t.Errorf("unexpected cfg %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("voxpersona", &cfg, WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/config.yml": true,
		".env":                true,
	}}
	r := &Resolver{FileSystem: fs}
	got := r.ResolveFiles("voxpersona", LoaderConfig{})
	if got.ConfigFile != "./config/config.yml" || got.EnvFile != ".env" {
		t.Errorf("ResolveFiles = %+v", got)
	}

	explicit := r.ResolveFiles("voxpersona", LoaderConfig{ConfigFile: "x.yml"})
	if explicit.ConfigFile != "x.yml" {
		t.Errorf("explicit path ignored: %+v", explicit)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix("vox-persona"); got != "VOX_PERSONA" {
		t.Errorf("EnvPrefix = %q", got)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
