// Package config loads uaparse settings from TOML, YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/coquinn7/UserAssist/internal/knownfolders"
	"github.com/coquinn7/UserAssist/internal/logging"
	"github.com/coquinn7/UserAssist/internal/output"
)

// EnvPrefix prefixes environment overrides, e.g. UAPARSE_LOG_LEVEL.
const EnvPrefix = "UAPARSE_"

// Config holds every setting the CLI accepts from a file.
type Config struct {
	OutDir        string            `toml:"out_dir" json:"out_dir" yaml:"out_dir"`
	Formats       []string          `toml:"formats" json:"formats" yaml:"formats"`
	AgeRecipient  string            `toml:"age_recipient" json:"age_recipient" yaml:"age_recipient"`
	LogLevel      string            `toml:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat     string            `toml:"log_format" json:"log_format" yaml:"log_format"`
	LogDir        string            `toml:"log_dir" json:"log_dir" yaml:"log_dir"`
	SkipTypeCheck bool              `toml:"skip_type_check" json:"skip_type_check" yaml:"skip_type_check"`
	Tolerant      bool              `toml:"tolerant" json:"tolerant" yaml:"tolerant"`
	KnownFolders  map[string]string `toml:"known_folders" json:"known_folders" yaml:"known_folders"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutDir:    ".",
		Formats:   []string{string(output.FormatCSV)},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. The format follows the extension; unknown
// extensions are tried as TOML, then JSON, then YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		if err := autoDetectAndParse(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func autoDetectAndParse(data []byte, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err == nil {
		return nil
	}
	if err := json.Unmarshal(data, cfg); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err == nil {
		return nil
	}
	return errors.New("unable to parse config file (tried TOML, JSON, YAML)")
}

// ApplyEnvOverrides replaces fields with UAPARSE_* environment variables
// when they are set.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvPrefix + "OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv(EnvPrefix + "FORMATS"); v != "" {
		c.Formats = strings.Split(v, ",")
	}
	if v := os.Getenv(EnvPrefix + "AGE_RECIPIENT"); v != "" {
		c.AgeRecipient = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// Validate checks every field and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error
	if _, err := output.ParseFormats(c.Formats); err != nil {
		errs = append(errs, err)
	}
	if c.AgeRecipient != "" {
		if err := output.ValidateRecipient(c.AgeRecipient); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if _, err := c.Folders(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Folders returns the built-in known folder table with KnownFolders merged
// over it.
func (c *Config) Folders() (knownfolders.Table, error) {
	return knownfolders.Default().Merge(c.KnownFolders)
}
