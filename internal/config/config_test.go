package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Errorf("MaxRedirects = %d, want %d", cfg.MaxRedirects, DefaultMaxRedirects)
	}
	if cfg.Modules.Source != SourceBuiltin {
		t.Errorf("Modules.Source = %q, want %q", cfg.Modules.Source, SourceBuiltin)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
  "addr": ":9000",
  "basename": "/console",
  "log": {"level": "debug", "format": "json"},
  "modules": {"source": "s3", "bucket": "assets", "manifest": "r1/manifest.json"},
  "api": {"fixture": "fixture.yaml"}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.Basename != "/console" {
		t.Errorf("Addr = %q, Basename = %q", cfg.Addr, cfg.Basename)
	}
	if cfg.Modules.Bucket != "assets" || cfg.Modules.Manifest != "r1/manifest.json" {
		t.Errorf("Modules = %+v", cfg.Modules)
	}
	if cfg.MaxRedirects != DefaultMaxRedirects {
		t.Errorf("MaxRedirects default not applied: %d", cfg.MaxRedirects)
	}
	if cfg.Path() != path || cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Path = %q, Dir = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("implicit missing file should be skipped: %v", err)
	}
	if cfg.Path() != "" || cfg.Dir() != "." {
		t.Errorf("Path = %q", cfg.Path())
	}

	if _, err := Load("nope.json"); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("explicit missing file = %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"addr": `)); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("error = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"addr": ":9000", "log": {"level": "warn"}}`)
	t.Setenv("CONSOLE_ADDR", ":7000")
	t.Setenv("CONSOLE_LOG_LEVEL", "debug")
	t.Setenv("CONSOLE_MODULES_SOURCE", "fs")
	t.Setenv("CONSOLE_MODULES_DIR", "/srv/dist")
	t.Setenv("CONSOLE_MAX_REDIRECTS", "3")
	t.Setenv("CONSOLE_API_BASE_URL", "http://api.local/api/v1")
	t.Setenv("CONSOLE_METRICS_DISABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" || cfg.Log.Level != "debug" || cfg.MaxRedirects != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Modules.Source != SourceFS || cfg.Modules.Dir != "/srv/dist" {
		t.Errorf("Modules = %+v", cfg.Modules)
	}
	if cfg.API.BaseURL != "http://api.local/api/v1" || !cfg.Metrics.Disabled {
		t.Errorf("API = %+v, Metrics = %+v", cfg.API, cfg.Metrics)
	}
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("CONSOLE_MAX_REDIRECTS", "many")
	if _, err := Load(writeConfig(t, `{}`)); !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }},
		{"relative basename", func(c *Config) { c.Basename = "console" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"unknown source", func(c *Config) { c.Modules.Source = "ftp" }},
		{"s3 without bucket", func(c *Config) { c.Modules.Source = SourceS3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Validate() = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	cfg := New()
	cfg.Basename = "/c"
	cfg.Modules.SecretAccessKey = "secret"
	path := filepath.Join(t.TempDir(), "out.json")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("secret written to disk")
	}
	back, err := Load(path)
	if err != nil || back.Basename != "/c" {
		t.Errorf("reload = %+v, %v", back, err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %s", buf.String())
	}
	LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("json output = %s", buf.String())
	}
}
