// Package config provides shared configuration types for LeapQA.
// Configuration is loaded once at the CLI boundary and passed explicitly
// into the engine; the core packages never read ambient state.
package config

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapqa/internal/engine"
	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/report"
)

// Default configuration values.
const (
	DefaultThreshold  = "error"
	DefaultSampleSize = report.DefaultSampleSize
	DefaultOutput     = "text"
)

// Config holds all CLI configuration options.
type Config struct {
	// Threshold is the severity at or above which validation fails.
	Threshold string `koanf:"threshold"`

	// SampleSize caps sampled violations per rule summary.
	SampleSize int `koanf:"sample_size"`

	// Strict rejects unknown dataset columns and rules targeting
	// columns the schema does not declare.
	Strict bool `koanf:"strict"`

	// Concurrency is the number of rules evaluated in parallel.
	Concurrency int `koanf:"concurrency"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// OutputFormat selects report rendering: text or json.
	OutputFormat string `koanf:"output"`
}

// Validate checks values that koanf cannot.
func (c *Config) Validate() error {
	if _, ok := core.ParseSeverity(c.Threshold); !ok {
		return fmt.Errorf("unknown severity threshold %q", c.Threshold)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size %d is negative", c.SampleSize)
	}
	if c.OutputFormat != "text" && c.OutputFormat != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", c.OutputFormat)
	}
	return nil
}

// EngineConfig converts the CLI configuration into the engine's explicit
// configuration structure.
func (c *Config) EngineConfig(logger *slog.Logger) engine.Config {
	threshold, _ := core.ParseSeverity(c.Threshold)
	return engine.Config{
		Threshold:   &threshold,
		SampleSize:  c.SampleSize,
		Strict:      c.Strict,
		Concurrency: c.Concurrency,
		Logger:      logger,
	}
}
