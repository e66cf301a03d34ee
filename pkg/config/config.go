package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ekaya-inc/cardinality/pkg/apperrors"
	"github.com/ekaya-inc/cardinality/pkg/logging"
	"github.com/ekaya-inc/cardinality/pkg/retry"
)

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "cardinality.yaml"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// DefaultNullMarkers are the field values read as null from files. They match
// the missing-value markers pandas recognizes by default.
var DefaultNullMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Config holds all configuration for cardinality.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values.
// Database credentials belong in the source reference or a .env file, never here.
type Config struct {
	Version string `yaml:"-"` // Set at load time, not from config

	// Output is the default output format: text, json or yaml.
	Output string `yaml:"output" env:"CARDINALITY_OUTPUT" env-default:"text"`

	Log      LogConfig      `yaml:"log"`
	TSV      TSVConfig      `yaml:"tsv"`
	Database DatabaseConfig `yaml:"database"`
	Retry    RetryConfig    `yaml:"retry"`
}

// LogConfig holds logger settings. Logs go to stderr.
type LogConfig struct {
	Level  string `yaml:"level" env:"CARDINALITY_LOG_LEVEL" env-default:"warn"`
	Format string `yaml:"format" env:"CARDINALITY_LOG_FORMAT" env-default:"console"`
}

// TSVConfig holds settings for file sources.
type TSVConfig struct {
	// Delimiter is a single character; "\t" or "tab" (the default) mean a tab.
	Delimiter string `yaml:"delimiter" env:"CARDINALITY_DELIMITER"`
	// NullMarkers replaces DefaultNullMarkers when set.
	NullMarkers []string `yaml:"null_markers" env:"CARDINALITY_NULL_MARKERS" env-separator:","`
	// RawValues disables numeric normalization, so "1" and "1.0" differ.
	RawValues bool `yaml:"raw_values" env:"CARDINALITY_RAW_VALUES"`
}

// DatabaseConfig holds settings for database sources.
type DatabaseConfig struct {
	MaxConns              int32 `yaml:"max_conns" env:"CARDINALITY_DB_MAX_CONNS" env-default:"2"`
	ConnectTimeoutSeconds int   `yaml:"connect_timeout_seconds" env:"CARDINALITY_DB_CONNECT_TIMEOUT" env-default:"30"`
}

// RetryConfig controls reconnect behavior for database sources.
type RetryConfig struct {
	MaxRetries     int `yaml:"max_retries" env:"CARDINALITY_RETRY_MAX" env-default:"3"`
	InitialDelayMS int `yaml:"initial_delay_ms" env:"CARDINALITY_RETRY_INITIAL_DELAY_MS" env-default:"100"`
	MaxDelayMS     int `yaml:"max_delay_ms" env:"CARDINALITY_RETRY_MAX_DELAY_MS" env-default:"5000"`
}

// Load reads configuration with environment variable overrides.
// Variables from a .env file in the working directory are loaded first and
// never override variables already set. The YAML file at path is read when
// path is non-empty; otherwise DefaultConfigFile is read if it exists.
func Load(version, path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{
		Version: version,
	}

	if path == "" && fileExists(DefaultConfigFile) {
		path = DefaultConfigFile
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.TSV.NullMarkers == nil {
		cfg.TSV.NullMarkers = append([]string(nil), DefaultNullMarkers...)
	}

	if err := ValidateOutput(cfg.Output); err != nil {
		return nil, err
	}
	if _, err := cfg.TSV.DelimiterRune(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ValidateOutput checks an output format name.
func ValidateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w %q (want text, json or yaml)", apperrors.ErrInvalidOutputStyle, format)
	}
}

// DelimiterRune returns the field delimiter for file sources.
func (c *TSVConfig) DelimiterRune() (rune, error) {
	switch strings.ToLower(c.Delimiter) {
	case "", `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, errors.New("tsv.delimiter must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid tsv.delimiter %q", c.Delimiter)
	}
	return r, nil
}

// LogOptions returns the logger settings.
func (c *LogConfig) LogOptions() logging.Options {
	return logging.Options{Level: c.Level, Format: c.Format}
}

// ConnectTimeout returns the per-attempt connection timeout.
func (c *DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// RetryPolicy converts the settings into a retry configuration.
func (c *RetryConfig) RetryPolicy() *retry.Config {
	policy := retry.DefaultConfig()
	policy.MaxRetries = c.MaxRetries
	policy.InitialDelay = time.Duration(c.InitialDelayMS) * time.Millisecond
	policy.MaxDelay = time.Duration(c.MaxDelayMS) * time.Millisecond
	return policy
}
