// Package service wires the score file reader, the two evaluation
// policies and the report sinks into one batch run.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nmellal/targeval/internal/adapters/delimtext"
	"github.com/nmellal/targeval/internal/adapters/sink"
	"github.com/nmellal/targeval/internal/config"
	"github.com/nmellal/targeval/internal/domain/eval"
	"github.com/nmellal/targeval/internal/domain/matrix"
	"github.com/nmellal/targeval/pkg/logger"
	"github.com/nmellal/targeval/pkg/metrics"
)

// Service runs one evaluation: load the matrix once, evaluate both
// policies, emit the reports once. No I/O happens mid-algorithm.
type Service struct {
	cfg    *config.Config
	logger logger.Logger
	reader *delimtext.Reader
	sinks  []sink.Sink
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSinks replaces the report sinks derived from the configuration.
func WithSinks(sinks ...sink.Sink) Option {
	return func(s *Service) {
		if len(sinks) > 0 {
			s.sinks = sinks
		}
	}
}

// New constructs a Service for the given configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		reader: delimtext.NewReader(delimtext.WithSeparator(separatorRune(cfg.Separator))),
	}

	switch cfg.ReportFormat {
	case "json":
		s.sinks = []sink.Sink{sink.NewJSONSink(cfg.ReportDir)}
	case "both":
		s.sinks = []sink.Sink{sink.NewTSVSink(cfg.ReportDir), sink.NewJSONSink(cfg.ReportDir)}
	default:
		s.sinks = []sink.Sink{sink.NewTSVSink(cfg.ReportDir)}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the whole evaluation. Configuration and input shape
// errors fail fast before any per-day computation; an unreadable score
// file degrades to the empty-input state and still yields well-formed
// zeroed reports.
func (s *Service) Run(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	runID := uuid.NewString()
	log := s.logger.Named("run")

	m, err := s.loadMatrix(ctx, log)
	if err != nil {
		return err
	}
	metrics.UpdateRowsLoaded(m.Rows())

	// The historical call sites cap the horizon at the available
	// score days.
	duration := s.cfg.EvalDuration
	if m.Rows() > 0 && duration > m.ScoreDays() {
		log.Warn(ctx, "eval duration exceeds score days, clamping",
			logger.Int("eval_duration", duration),
			logger.Int("score_days", m.ScoreDays()))
		duration = m.ScoreDays()
	}

	reactive, err := eval.NewReactive(m, eval.ReactiveConfig{
		Bins:     s.cfg.ReactiveBins,
		Duration: duration,
		Latency:  s.cfg.ReactiveLatency,
	})
	if err != nil {
		return fmt.Errorf("reactive policy: %w", err)
	}
	proactive, err := eval.NewProactive(m, eval.ProactiveConfig{
		Fractions: s.cfg.ProactiveFractions,
		Duration:  duration,
		Latency:   s.cfg.ProactiveLatency,
	})
	if err != nil {
		return fmt.Errorf("proactive policy: %w", err)
	}

	log.Info(ctx, "starting evaluation",
		logger.String("run_id", runID),
		logger.Int("rows", m.Rows()),
		logger.Int("eval_days", duration),
		logger.Int("reactive_bins", s.cfg.ReactiveBins),
		logger.Int("proactive_fractions", len(s.cfg.ProactiveFractions)),
	)

	// The two flavors share no mutable state; run them concurrently
	// and join before reporting completion.
	g, gctx := errgroup.WithContext(ctx)
	for _, policy := range []eval.Policy{reactive, proactive} {
		policy := policy
		g.Go(func() error {
			rep, err := eval.Run(gctx, m, policy, eval.WithRunID(runID))
			if err != nil {
				return fmt.Errorf("%s evaluation: %w", policy.Name(), err)
			}
			metrics.UpdateTargetsTotal(rep.TotalTargets)
			for _, snk := range s.sinks {
				if err := snk.Write(gctx, rep); err != nil {
					return fmt.Errorf("%s report: %w", policy.Name(), err)
				}
			}
			log.Info(gctx, "policy evaluated",
				logger.String("run_id", runID),
				logger.String("policy", policy.Name()),
				logger.Int("total_targets", rep.TotalTargets),
				logger.Int("bins", len(rep.Bins)),
			)
			return nil
		})
	}
	return g.Wait()
}

// loadMatrix reads the configured score file. A missing or unreadable
// file is the degenerate no-input state, not an error; a file with bad
// content fails the run.
func (s *Service) loadMatrix(ctx context.Context, log logger.Logger) (*matrix.Matrix, error) {
	if s.cfg.ScoreFile == "" {
		log.Warn(ctx, "no score file configured, evaluating empty input")
		return matrix.Empty(), nil
	}

	m, err := s.reader.Read(ctx, s.cfg.ScoreFile, delimtext.Schema{
		IDColumn:      s.cfg.IDColumn,
		TargetColumns: s.cfg.TargetColumns,
		ScoreColumns:  s.cfg.ScoreColumns,
	})
	if errors.Is(err, delimtext.ErrOpen) || errors.Is(err, os.ErrNotExist) {
		metrics.RecordLoadError()
		log.Warn(ctx, "score file unreadable, evaluating empty input",
			logger.String("score_file", s.cfg.ScoreFile),
			logger.Error(err))
		return matrix.Empty(), nil
	}
	if err != nil {
		metrics.RecordLoadError()
		return nil, fmt.Errorf("load score file: %w", err)
	}
	return m, nil
}

// separatorRune extracts the single separator rune, falling back to
// the upstream default ';'.
func separatorRune(sep string) rune {
	for _, r := range sep {
		return r
	}
	return ';'
}
