package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "console.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CONSOLE_"

	DefaultAddr             = ":8080"
	DefaultMaxRedirects     = 8
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsNamespace = "console"
	DefaultMetricsPath      = "/metrics"
	DefaultManifest         = "manifest.json"
)

// Module sources.
const (
	SourceBuiltin = "builtin"
	SourceFS      = "fs"
	SourceS3      = "s3"
)

var (
	// ErrInvalidFile is returned when console.json cannot be read or parsed.
	ErrInvalidFile = errors.New("invalid config file")

	// ErrInvalidValue is returned by Validate.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrInvalidEnv is returned when an environment override cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment override")
)

// Config is the complete console configuration.
type Config struct {
	// Addr is the listen address of the server.
	Addr string `json:"addr,omitempty" env:"ADDR"`

	// Basename is the URL prefix the console is mounted under.
	Basename string `json:"basename,omitempty" env:"BASENAME"`

	// MaxRedirects bounds loader redirect chains.
	MaxRedirects int `json:"maxRedirects,omitempty" env:"MAX_REDIRECTS"`

	Log     LogConfig     `json:"log,omitempty" envPrefix:"LOG_"`
	Metrics MetricsConfig `json:"metrics,omitempty" envPrefix:"METRICS_"`
	Modules ModulesConfig `json:"modules,omitempty" envPrefix:"MODULES_"`
	API     APIConfig     `json:"api,omitempty" envPrefix:"API_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Disabled  bool   `json:"disabled,omitempty" env:"DISABLED"`
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
	Path      string `json:"path,omitempty" env:"PATH"`
}

// ModulesConfig selects where the module manifest comes from.
type ModulesConfig struct {
	// Source is builtin, fs or s3.
	Source string `json:"source,omitempty" env:"SOURCE"`

	// Dir is the directory holding the manifest for the fs source.
	Dir string `json:"dir,omitempty" env:"DIR"`

	// Manifest is the manifest file name (fs) or object key (s3).
	Manifest string `json:"manifest,omitempty" env:"MANIFEST"`

	Bucket          string `json:"bucket,omitempty" env:"BUCKET"`
	Region          string `json:"region,omitempty" env:"REGION"`
	Endpoint        string `json:"endpoint,omitempty" env:"ENDPOINT"`
	AccessKeyID     string `json:"accessKeyID,omitempty" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" env:"SECRET_ACCESS_KEY"`
}

// APIConfig selects the API loaders consult.
type APIConfig struct {
	// BaseURL is the Hatchet API root.
	BaseURL string `json:"baseURL,omitempty" env:"BASE_URL"`

	// Fixture is a YAML fixture file served instead of the API.
	Fixture string `json:"fixture,omitempty" env:"FIXTURE"`
}

// New creates a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load builds the configuration from defaults, the file at path, and the
// environment. An empty path looks for console.json in the working
// directory and skips it if absent.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
		}
		cfg.configPath = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays CONSOLE_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}
	return nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file, or ".".
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Modules.Source == "" {
		c.Modules.Source = SourceBuiltin
	}
	if c.Modules.Manifest == "" {
		c.Modules.Manifest = DefaultManifest
	}
	if c.Modules.Dir == "" {
		c.Modules.Dir = "dist"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRedirects < 0 {
		return fmt.Errorf("%w: maxRedirects must not be negative", ErrInvalidValue)
	}
	if c.Basename != "" && !strings.HasPrefix(c.Basename, "/") {
		return fmt.Errorf("%w: basename %q must start with /", ErrInvalidValue, c.Basename)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalidValue, c.Log.Format)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics path %q must start with /", ErrInvalidValue, c.Metrics.Path)
	}
	switch c.Modules.Source {
	case SourceBuiltin, SourceFS:
	case SourceS3:
		if c.Modules.Bucket == "" {
			return fmt.Errorf("%w: modules.bucket is required for the s3 source", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: modules.source %q (want builtin, fs or s3)", ErrInvalidValue, c.Modules.Source)
	}
	return nil
}

// SaveTo writes the configuration as indented JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidValue, s)
	}
	return l, nil
}

// NewLogger builds a slog logger writing to w. Invalid settings fall back
// to info-level text.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
