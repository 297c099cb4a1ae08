package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.yaml.in/yaml/v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

var (
	// Themes lists the palette names accepted by the theme key.
	Themes = []string{"mocha", "macchiato", "frappe", "latte"}

	// Policies lists the values accepted by the reconcile key.
	Policies = []string{"retain", "select-all"}

	levels = []string{"debug", "info", "warn", "error"}
)

// Config represents <user config dir>/selectfield/config.yaml.
type Config struct {
	Catalog     string         `yaml:"catalog,omitempty"`
	Field       map[string]any `yaml:"field,omitempty"`
	Reconcile   string         `yaml:"reconcile,omitempty"`
	ReopenDelay string         `yaml:"reopen_delay,omitempty"`
	BlurDelay   string         `yaml:"blur_delay,omitempty"`
	MenuHeight  int            `yaml:"menu_height,omitempty"`
	Theme       string         `yaml:"theme,omitempty"`
	LogFile     string         `yaml:"log_file,omitempty"`
	LogLevel    string         `yaml:"log_level,omitempty"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Reconcile: "retain",
		Theme:     "mocha",
		LogLevel:  "info",
	}
}

// Parse parses config.yaml bytes into a Config. Missing keys take their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Reconcile == "" {
		cfg.Reconcile = "retain"
	}
	if cfg.Theme == "" {
		cfg.Theme = "mocha"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Marshal serializes a Config to YAML bytes.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Load reads and validates the config file at path. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated values, durations and the menu height.
func (c Config) Validate() error {
	if !slices.Contains(Policies, c.Reconcile) {
		return fmt.Errorf("%w: reconcile %q, want one of %v", ErrInvalid, c.Reconcile, Policies)
	}
	if !slices.Contains(Themes, c.Theme) {
		return fmt.Errorf("%w: theme %q, want one of %v", ErrInvalid, c.Theme, Themes)
	}
	if !slices.Contains(levels, c.LogLevel) {
		return fmt.Errorf("%w: log_level %q, want one of %v", ErrInvalid, c.LogLevel, levels)
	}
	if c.MenuHeight < 0 {
		return fmt.Errorf("%w: menu_height must not be negative", ErrInvalid)
	}
	if _, _, err := c.Delays(); err != nil {
		return err
	}
	return nil
}

// Delays parses reopen_delay and blur_delay. Unset delays are zero, which
// the field replaces with its defaults.
func (c Config) Delays() (reopen, blur time.Duration, err error) {
	if reopen, err = parseDelay("reopen_delay", c.ReopenDelay); err != nil {
		return 0, 0, err
	}
	if blur, err = parseDelay("blur_delay", c.BlurDelay); err != nil {
		return 0, 0, err
	}
	return reopen, blur, nil
}

func parseDelay(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalid, key)
	}
	return d, nil
}
