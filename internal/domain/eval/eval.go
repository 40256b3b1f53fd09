// Package eval implements the two day-by-day selection policies and
// the engine that drives them against a score/target matrix.
//
// A Policy decides, for every evaluated day, which rows each bin
// contacts. The engine owns the rest of the bookkeeping: latency-window
// hit detection, the per-bin cohort accumulator and the final metric
// aggregation. The whole run is deterministic CPU-bound batch work;
// identical input and configuration yield bit-reproducible reports.
package eval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nmellal/targeval/internal/domain/cohort"
	"github.com/nmellal/targeval/internal/domain/matrix"
	"github.com/nmellal/targeval/internal/domain/report"
	"github.com/nmellal/targeval/pkg/metrics"
)

// Policy is a day-by-day selection strategy over a fixed matrix. The
// two implementations are the memory-less nested-quantile policy
// (Reactive) and the pool-depleting sequential-quota policy
// (Proactive).
type Policy interface {
	// Name identifies the policy flavor in reports and logs.
	Name() string
	// Bins returns the number of evaluation cohorts.
	Bins() int
	// Label renders the bin's fraction for report keys.
	Label(bin int) string
	// Quota is the bin's precision denominator.
	Quota(bin int) int
	// Latency is the forward look-ahead window in days.
	Latency() int
	// Duration is the number of evaluated days.
	Duration() int
	// PoolDepleting reports whether selected rows leave the candidate
	// population for subsequent days.
	PoolDepleting() bool
	// SelectForDay returns, per bin, the row indices selected for the
	// given day. For pool-depleting policies the call advances the
	// per-bin pool state; days must be requested in order, once each.
	SelectForDay(ctx context.Context, day int) ([][]int, error)
	// Finalize assembles the report from the accumulated counts.
	Finalize(runID string, acc *cohort.Accumulator) *report.Report
}

// options holds engine tunables.
type options struct {
	runID       string
	parallelism int
}

// Option applies a configuration option to a Run.
type Option func(*options)

// WithRunID sets the report's run identifier. A random UUID is used
// when unset.
func WithRunID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.runID = id
		}
	}
}

// WithParallelism bounds the per-day fan-out across bins. Zero or
// negative means unbounded.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// Run drives the policy over the matrix one day at a time and returns
// the assembled report. Per-day errors are fatal to the run; there is
// no partial report and no silent day-skipping.
func Run(ctx context.Context, m *matrix.Matrix, p Policy, opts ...Option) (*report.Report, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	// Degenerate no-input state: a well-formed zeroed report.
	if m.Rows() == 0 {
		return report.Empty(o.runID, p.Name(), p.Latency(), p.Duration()), nil
	}

	start := time.Now()
	acc := cohort.New(p.Bins(), p.Duration())

	for day := 0; day < p.Duration(); day++ {
		selected, err := p.SelectForDay(ctx, day)
		if err != nil {
			metrics.RecordRunError(p.Name())
			return nil, err
		}

		// Fork across bins; the Wait below is the join barrier the
		// aggregation depends on. Distinct bins never share
		// accumulator state.
		g, gctx := errgroup.WithContext(ctx)
		if o.parallelism > 0 {
			g.SetLimit(o.parallelism)
		}
		for bin := 0; bin < p.Bins(); bin++ {
			bin := bin
			g.Go(func() error {
				rows := selected[bin]
				hits := make([]string, 0, len(rows))
				dayMetric := 0
				for _, r := range rows {
					if m.Target(r, day) {
						dayMetric++
					}
					if m.HitWithin(r, day, p.Latency()) {
						hits = append(hits, m.ID(r))
					}
				}
				return acc.RecordDay(gctx, bin, day, hits, dayMetric)
			})
		}
		if err := g.Wait(); err != nil {
			metrics.RecordRunError(p.Name())
			return nil, err
		}
	}

	rep := p.Finalize(o.runID, acc)
	metrics.RecordRun(p.Name())
	metrics.RecordRunDuration(p.Name(), float64(time.Since(start).Milliseconds()))
	return rep, nil
}

// baseReport fills the fields shared by both policy flavors:
// per-bin precision against the policy quota, recall against the total
// target count when targets were observed, and the header counts.
func baseReport(runID string, p Policy, m *matrix.Matrix, acc *cohort.Accumulator) *report.Report {
	total := m.TotalTargets(p.Duration() + p.Latency() - 1)

	rep := &report.Report{
		RunID:        runID,
		Policy:       p.Name(),
		RowCount:     m.Rows(),
		TotalTargets: total,
		Latency:      p.Latency(),
		Duration:     p.Duration(),
		Bins:         make([]report.Bin, p.Bins()),
		HasRecall:    total > 0,
	}
	if m.Rows() > 0 {
		rep.TargetRate = float64(total) / float64(m.Rows())
	}

	for bin := range rep.Bins {
		b := report.Bin{
			Label:      p.Label(bin),
			Quota:      p.Quota(bin),
			UniqueHits: acc.Unique(bin),
		}
		if b.Quota > 0 {
			b.Precision = float64(b.UniqueHits) / float64(b.Quota)
		}
		if rep.HasRecall {
			b.Recall = float64(b.UniqueHits) / float64(total)
		}
		rep.Bins[bin] = b
	}
	return rep
}
