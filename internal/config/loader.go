package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if TARGEVAL_CONFIG is set
//  3. env (prefix TARGEVAL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TARGEVAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TARGEVAL_SCORE_FILE, TARGEVAL_EVAL_DURATION, ...
	// Map env keys like TARGEVAL_EVAL_DURATION -> eval_duration (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TARGEVAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "targeval_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate applies the fail-fast configuration checks: a bad bin
// count, duration or latency must be rejected before any per-day
// computation starts.
func (c *Config) validate() error {
	if c.EvalDuration <= 0 {
		return fmt.Errorf("%w: eval_duration must be positive", ErrInvalidConfig)
	}
	if c.ReactiveBins <= 0 {
		return fmt.Errorf("%w: reactive_bins must be positive", ErrInvalidConfig)
	}
	if c.ReactiveLatency <= 0 || c.ProactiveLatency <= 0 {
		return fmt.Errorf("%w: latencies must be positive", ErrInvalidConfig)
	}
	if len(c.ProactiveFractions) == 0 {
		return fmt.Errorf("%w: proactive_fractions must not be empty", ErrInvalidConfig)
	}
	for _, f := range c.ProactiveFractions {
		if f <= 0 || f > 1 {
			return fmt.Errorf("%w: proactive fraction %v outside (0, 1]", ErrInvalidConfig, f)
		}
	}
	switch c.ReportFormat {
	case "tsv", "json", "both":
	default:
		return fmt.Errorf("%w: report_format %q (want tsv, json or both)", ErrInvalidConfig, c.ReportFormat)
	}
	return nil
}
