package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/orthoset/dataset"
	"github.com/hupe1980/orthoset/engine"
	"github.com/hupe1980/orthoset/kernel"
	"github.com/hupe1980/orthoset/selection"
)

// Config is the search configuration. It can be read from a YAML file and
// is overridden by explicitly set flags.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Format string `yaml:"format"`

	Shape       selection.Shape    `yaml:"shape"`
	Variant     kernel.Variant     `yaml:"variant"`
	Workers     int                `yaml:"workers"`
	BatchSize   int                `yaml:"batch_size"`
	Threshold   *float64           `yaml:"threshold"`
	TopK        int                `yaml:"top_k"`
	ErrorPolicy engine.ErrorPolicy `yaml:"error_policy"`
	Limit       int                `yaml:"limit"`

	Floor  float64 `yaml:"floor"`
	NoClip bool    `yaml:"no_clip"`

	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`

	LogLevel    slog.Level `yaml:"log_level"`
	LogFormat   string     `yaml:"log_format"`
	MetricsAddr string     `yaml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when neither a file nor a
// flag sets a value.
func DefaultConfig() Config {
	return Config{
		Output:    "-",
		Format:    "csv",
		Shape:     selection.Shape{Rows: 2, Cols: 2},
		Variant:   kernel.Direct,
		BatchSize: 1_000_000,
		Limit:     1000,
		Floor:     dataset.DefaultFloor,
		LogLevel:  slog.LevelInfo,
		LogFormat: "text",
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the library cannot check itself.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Format != "csv" && c.Format != "jsonl" {
		errs = append(errs, fmt.Errorf("unknown format %q (want csv or jsonl)", c.Format))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat))
	}
	return errors.Join(errs...)
}
