// Package config defines engine configuration structures and loading
// hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration for an evaluation run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// ScoreFile is the delimited score/target matrix to evaluate. An
	// unreadable file degrades to an empty run rather than an error.
	ScoreFile string `koanf:"score_file"`

	// Separator is the score file's column separator.
	Separator string `koanf:"separator"`

	// IDColumn is the index of the id column in the score file.
	IDColumn int `koanf:"id_column"`

	// TargetColumns is T, the number of daily target-flag columns.
	TargetColumns int `koanf:"target_columns"`

	// ScoreColumns is S, the number of daily score columns.
	ScoreColumns int `koanf:"score_columns"`

	// EvalDuration is E, the number of evaluated days. Clamped to the
	// available score columns at load time by the caller.
	EvalDuration int `koanf:"eval_duration"`

	// ReactiveBins is K, the number of nested population quantiles.
	ReactiveBins int `koanf:"reactive_bins"`

	// ReactiveLatency is the reactive look-ahead window in days.
	// Latency is always explicit per flavor; the two policies use
	// different horizons.
	ReactiveLatency int `koanf:"reactive_latency"`

	// ProactiveFractions are the target-coverage fractions, one
	// depleting simulation each.
	ProactiveFractions []float64 `koanf:"proactive_fractions"`

	// ProactiveLatency is the proactive look-ahead window in days.
	ProactiveLatency int `koanf:"proactive_latency"`

	// ReportDir is where report files are written.
	ReportDir string `koanf:"report_dir"`

	// ReportFormat selects the sink: tsv, json or both.
	ReportFormat string `koanf:"report_format"`

	// MetricsAddr, when non-empty, serves Prometheus metrics on
	// /metrics for the lifetime of the run, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with the defaults of the historical call sites:
// 20 reactive bins with 1-day latency, coverage fractions 0.10..0.90
// with 7-day latency, 30 evaluated days. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Separator:       ";",
		IDColumn:        0,
		TargetColumns:   37,
		ScoreColumns:    30,
		EvalDuration:    30,
		ReactiveBins:    20,
		ReactiveLatency: 1,
		ProactiveFractions: []float64{
			0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9,
		},
		ProactiveLatency: 7,
		ReportDir:        ".",
		ReportFormat:     "tsv",
	}
}
