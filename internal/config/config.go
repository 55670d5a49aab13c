package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/tempinfer/internal/normalize"
	"github.com/gyeh/tempinfer/internal/temporal"
)

const (
	DefaultSampleSize = 1000
	DefaultBatchSize  = 1024
	DefaultTable      = "converted_values"
)

// Config holds all runtime configuration for a tempinfer run.
type Config struct {
	DSN        string
	SQLitePath string
	FilePath   string
	Column     string
	Family     string // forces a family instead of voting, e.g. "date-dmy"
	OutPath    string
	OutFormat  string // "parquet" or "arrow"
	LogFormat  string // "text" or "json"
	LogLevel   string
	Force      bool

	SampleSize int                 `yaml:"sample_size"`
	NullValues []string            `yaml:"null_values"`
	Patterns   map[string][]string `yaml:"patterns"` // family name -> ordered templates
	Table      string              `yaml:"table"`
	BatchSize  int                 `yaml:"batch_size"`
	Workers    int                 `yaml:"workers"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	SampleSize *int                `yaml:"sample_size"`
	NullValues []string            `yaml:"null_values"`
	Patterns   map[string][]string `yaml:"patterns"`
	Table      string              `yaml:"table"`
	BatchSize  *int                `yaml:"batch_size"`
	Workers    *int                `yaml:"workers"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Keys absent from the file leave the current values alone.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.SampleSize != nil {
		c.SampleSize = *yc.SampleSize
	}
	if yc.NullValues != nil {
		c.NullValues = yc.NullValues
	}
	if yc.Patterns != nil {
		c.Patterns = yc.Patterns
	}
	if yc.Table != "" {
		c.Table = yc.Table
	}
	if yc.BatchSize != nil {
		c.BatchSize = *yc.BatchSize
	}
	if yc.Workers != nil {
		c.Workers = *yc.Workers
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("config patterns: %w", err)
	}
	return c.validateTuning()
}

// MergeFile overlays the YAML file at path, except for the fields whose
// command-line flag isSet reports as given explicitly. Keys absent from the
// file keep their current values, and zero values in the file are kept.
func (c *Config) MergeFile(path string, isSet func(flag string) bool) error {
	file := *c
	if err := file.LoadFromFile(path); err != nil {
		return err
	}
	if !isSet("sample-size") {
		c.SampleSize = file.SampleSize
	}
	if !isSet("workers") {
		c.Workers = file.Workers
	}
	if !isSet("null-values") {
		c.NullValues = file.NullValues
	}
	if !isSet("table") {
		c.Table = file.Table
	}
	if !isSet("batch-size") {
		c.BatchSize = file.BatchSize
	}
	c.Patterns = file.Patterns
	return nil
}

// ApplyDefaults fills zero-valued tuning fields. A zero SampleSize is left
// alone: it means every value is sampled.
func (c *Config) ApplyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if c.NullValues == nil {
		c.NullValues = normalize.DefaultNullTokens()
	}
	if c.OutFormat == "" {
		c.OutFormat = "parquet"
	}
}

func (c *Config) validateTuning() error {
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must not be negative, got %d", c.SampleSize)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Catalog compiles the configured pattern overrides on top of the built-in
// catalog.
func (c *Config) Catalog() (*temporal.Catalog, error) {
	if len(c.Patterns) == 0 {
		return temporal.DefaultCatalog(), nil
	}
	overrides := make(map[temporal.Family][]string, len(c.Patterns))
	for name, texts := range c.Patterns {
		f, err := temporal.ParseFamily(name)
		if err != nil {
			return nil, err
		}
		overrides[f] = texts
	}
	return temporal.NewCatalog(overrides)
}

// NullTokens returns the configured null token set, or nil when none are
// configured.
func (c *Config) NullTokens() normalize.NullTokens {
	if c.NullValues == nil {
		return nil
	}
	return normalize.NewNullTokens(c.NullValues)
}

// ForcedFamily returns the family named by --family, if any.
func (c *Config) ForcedFamily() (temporal.Family, bool, error) {
	if c.Family == "" {
		return 0, false, nil
	}
	f, err := temporal.ParseFamily(c.Family)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if c.Column == "" {
		return fmt.Errorf("--column is required")
	}
	if _, _, err := c.ForcedFamily(); err != nil {
		return err
	}
	return c.validateTuning()
}

// ValidateOutput checks the convert command's output fields.
func (c *Config) ValidateOutput() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OutPath == "" {
		return fmt.Errorf("--out is required")
	}
	switch strings.ToLower(c.OutFormat) {
	case "parquet", "arrow":
	default:
		return fmt.Errorf("unknown output format %q (want parquet or arrow)", c.OutFormat)
	}
	return nil
}

// ValidateWithSink checks the file fields and that a database destination is
// set. --sqlite wins over a DSN.
func (c *Config) ValidateWithSink() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" && c.SQLitePath == "" {
		return fmt.Errorf("--dsn, DATABASE_URL or --sqlite is required")
	}
	return nil
}
