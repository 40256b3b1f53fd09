package eval

import (
	"context"
	"fmt"
	"math"

	"github.com/nmellal/targeval/internal/domain/cohort"
	"github.com/nmellal/targeval/internal/domain/matrix"
	"github.com/nmellal/targeval/internal/domain/report"
)

// ReactiveConfig configures the nested-quantile policy.
type ReactiveConfig struct {
	// Bins is K, the number of nested population quantiles.
	Bins int
	// Duration is E, the number of evaluated days.
	Duration int
	// Latency is L, the forward look-ahead window in days. Always
	// explicit; the two flavors historically diverged on defaults.
	Latency int
}

// Reactive is the memory-less nested-quantile policy: every day the
// full population is re-sorted by that day's score and bin k takes the
// top round(N*(k+1)/K) rows. Selection never depletes, so the same
// individual may be reselected on later days and appears in every bin
// that is wide enough.
type Reactive struct {
	m   *matrix.Matrix
	cfg ReactiveConfig
}

// NewReactive validates the configuration against the matrix and
// builds the policy. Validation is fail-fast: no per-day computation
// happens on a bad configuration or an undersized matrix.
func NewReactive(m *matrix.Matrix, cfg ReactiveConfig) (*Reactive, error) {
	if cfg.Bins <= 0 {
		return nil, fmt.Errorf("%w: bin count %d", ErrConfig, cfg.Bins)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: eval duration %d", ErrConfig, cfg.Duration)
	}
	if cfg.Latency <= 0 {
		return nil, fmt.Errorf("%w: latency %d", ErrConfig, cfg.Latency)
	}
	if err := m.Validate(cfg.Duration, cfg.Latency); err != nil {
		return nil, err
	}
	return &Reactive{m: m, cfg: cfg}, nil
}

func (r *Reactive) Name() string        { return "reactive" }
func (r *Reactive) Bins() int           { return r.cfg.Bins }
func (r *Reactive) Latency() int        { return r.cfg.Latency }
func (r *Reactive) Duration() int       { return r.cfg.Duration }
func (r *Reactive) PoolDepleting() bool { return false }

// Label is the bin's population fraction (k+1)/K to two decimals.
func (r *Reactive) Label(bin int) string {
	return report.FractionLabel(float64(bin+1) / float64(r.cfg.Bins))
}

// Quota is round(N*(k+1)/K), half away from zero.
func (r *Reactive) Quota(bin int) int {
	q := roundCount(float64(r.m.Rows()) * float64(bin+1) / float64(r.cfg.Bins))
	if q > r.m.Rows() {
		q = r.m.Rows()
	}
	return q
}

// SelectForDay sorts the full matrix once by the day's score and hands
// each bin its prefix, so for k1 < k2 bin k1's selection is always a
// subset of bin k2's.
func (r *Reactive) SelectForDay(_ context.Context, day int) ([][]int, error) {
	order := r.m.OrderByDay(day, nil)
	selected := make([][]int, r.cfg.Bins)
	for bin := range selected {
		selected[bin] = order[:r.Quota(bin)]
	}
	return selected, nil
}

// Finalize adds the reactive-only gain and mean-recall series on top
// of the shared precision/recall assembly.
func (r *Reactive) Finalize(runID string, acc *cohort.Accumulator) *report.Report {
	rep := baseReport(runID, r, r.m, acc)
	if !rep.HasRecall {
		return rep
	}

	rep.HasGain = true
	recallSum := 0.0
	for i := range rep.Bins {
		rep.Bins[i].Gain = rep.Bins[i].Precision / rep.TargetRate
		recallSum += rep.Bins[i].Recall
	}
	rep.MeanRecall = recallSum / float64(r.cfg.Bins)
	rep.HasMeanRecall = true
	return rep
}

// roundCount rounds a fractional row count half away from zero, the
// documented rule for every quota in this package.
func roundCount(x float64) int {
	return int(math.Round(x))
}
