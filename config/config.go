// Package config loads tickmatrix settings from YAML, .env files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/tickmatrix/matrix"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "tickmatrix.yaml"

// Config holds all tickmatrix configuration.
type Config struct {
	// Matrix engine settings
	Matrix MatrixConfig `yaml:"matrix"`

	// HTTP service
	Server ServerConfig `yaml:"server"`

	// Live browser mode
	Live LiveConfig `yaml:"live"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// MatrixConfig configures scopes and the annotation engine.
type MatrixConfig struct {
	ParentScope string `yaml:"parent_scope"`
	ChildScope  string `yaml:"child_scope"`

	MarkerTag    string `yaml:"marker_tag"`
	LabelAttr    string `yaml:"label_attr"`
	TickSentinel string `yaml:"tick_sentinel"`

	HeadingClass     string `yaml:"heading_class"`
	HeadingContainer int    `yaml:"heading_container"`
	ColumnOffset     int    `yaml:"column_offset"`

	PlaceholderPrefixes []string `yaml:"placeholder_prefixes"`
	PlaceholderColor    string   `yaml:"placeholder_color"`
	MatchColor          string   `yaml:"match_color"`
	MismatchColor       string   `yaml:"mismatch_color"`

	NormalizeLabels bool `yaml:"normalize_labels"`

	LayoutID    string `yaml:"layout_id"`
	LayoutColor string `yaml:"layout_color"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// LiveConfig configures the headless browser used by live mode.
type LiveConfig struct {
	ControlURL string `yaml:"control_url"` // attach to a running browser instead of launching one
	BrowserBin string `yaml:"browser_bin"`
	Headless   bool   `yaml:"headless"`
	Timeout    string `yaml:"timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	opts := matrix.DefaultOptions()
	return &Config{
		Matrix: MatrixConfig{
			MarkerTag:           opts.MarkerTag,
			LabelAttr:           opts.LabelAttr,
			TickSentinel:        opts.TickSentinel,
			HeadingClass:        opts.HeadingClass,
			HeadingContainer:    opts.HeadingContainer,
			ColumnOffset:        opts.ColumnOffset,
			PlaceholderPrefixes: opts.PlaceholderPrefixes,
			PlaceholderColor:    opts.PlaceholderColor,
			MatchColor:          opts.MatchColor,
			MismatchColor:       opts.MismatchColor,
			NormalizeLabels:     opts.NormalizeLabels,
			LayoutID:            opts.LayoutID,
			LayoutColor:         opts.LayoutColor,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
			MaxBodyBytes: 10 << 20,
		},
		Live: LiveConfig{
			Headless: true,
			Timeout:  "60s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. A .env file in the working directory is loaded first, and
// TICKMATRIX_* environment variables override file values.
func Load(path string) (*Config, error) {
	// Try to load .env (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// Defaults apply
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("TICKMATRIX_PARENT"); v != "" {
		c.Matrix.ParentScope = v
	}
	if v := os.Getenv("TICKMATRIX_CHILD"); v != "" {
		c.Matrix.ChildScope = v
	}
	if v := os.Getenv("TICKMATRIX_HEADING_CLASS"); v != "" {
		c.Matrix.HeadingClass = v
	}
	if v := os.Getenv("TICKMATRIX_PLACEHOLDER_PREFIXES"); v != "" {
		c.Matrix.PlaceholderPrefixes = splitList(v)
	}
	if v := os.Getenv("TICKMATRIX_LAYOUT_COLOR"); v != "" {
		c.Matrix.LayoutColor = v
	}
	if v := os.Getenv("TICKMATRIX_COLUMN_OFFSET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICKMATRIX_COLUMN_OFFSET must be a valid integer: %w", err)
		}
		c.Matrix.ColumnOffset = n
	}

	if v := os.Getenv("TICKMATRIX_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TICKMATRIX_CONTROL_URL"); v != "" {
		c.Live.ControlURL = v
	}
	if v := os.Getenv("TICKMATRIX_BROWSER"); v != "" {
		c.Live.BrowserBin = v
	}
	if v := os.Getenv("TICKMATRIX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Matrix.MarkerTag == "" {
		return fmt.Errorf("matrix.marker_tag must not be empty")
	}
	if c.Matrix.LabelAttr == "" {
		return fmt.Errorf("matrix.label_attr must not be empty")
	}
	if c.Matrix.TickSentinel == "" {
		return fmt.Errorf("matrix.tick_sentinel must not be empty")
	}
	if c.Matrix.HeadingClass == "" {
		return fmt.Errorf("matrix.heading_class must not be empty")
	}
	if c.Matrix.HeadingContainer < 0 {
		return fmt.Errorf("matrix.heading_container must be non-negative, got %d", c.Matrix.HeadingContainer)
	}
	if c.Matrix.ColumnOffset < 0 {
		return fmt.Errorf("matrix.column_offset must be non-negative, got %d", c.Matrix.ColumnOffset)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be greater than 0")
	}
	for name, d := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"live.timeout":         c.Live.Timeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}

// Options converts the matrix settings into engine options.
func (c *Config) Options() matrix.Options {
	m := c.Matrix
	return matrix.Options{
		MarkerTag:           m.MarkerTag,
		LabelAttr:           m.LabelAttr,
		TickSentinel:        m.TickSentinel,
		HeadingClass:        m.HeadingClass,
		HeadingContainer:    m.HeadingContainer,
		ColumnOffset:        m.ColumnOffset,
		PlaceholderPrefixes: append([]string(nil), m.PlaceholderPrefixes...),
		PlaceholderColor:    m.PlaceholderColor,
		MatchColor:          m.MatchColor,
		MismatchColor:       m.MismatchColor,
		NormalizeLabels:     m.NormalizeLabels,
		LayoutID:            m.LayoutID,
		LayoutColor:         m.LayoutColor,
	}
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetLiveTimeout returns the live page timeout as a duration.
func (c *Config) GetLiveTimeout() time.Duration {
	d, err := time.ParseDuration(c.Live.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}
