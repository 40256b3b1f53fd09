package eval

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nmellal/targeval/internal/domain/cohort"
	"github.com/nmellal/targeval/internal/domain/matrix"
	"github.com/nmellal/targeval/internal/domain/report"
)

// ProactiveConfig configures the pool-depleting sequential-quota
// policy.
type ProactiveConfig struct {
	// Fractions are the target-coverage fractions, one independent
	// depleting simulation per entry. Each must be in (0, 1].
	Fractions []float64
	// Duration is E, the number of evaluated days.
	Duration int
	// Latency is L, the forward look-ahead window in days.
	Latency int
}

// Proactive spreads each coverage fraction evenly over the horizon:
// every day the bin contacts the top round(N*f/E) rows of its current
// pool and those rows leave the pool for subsequent days (non-repeat
// contact). Each fraction owns its pool; bins are fully independent
// simulations over the same days.
type Proactive struct {
	m   *matrix.Matrix
	cfg ProactiveConfig

	// pools[bin] is the bin's remaining candidate rows. Mutated by
	// SelectForDay, one bin per goroutine at most.
	pools [][]int
	// nextDay guards against out-of-order selection, which would
	// silently corrupt the depletion bookkeeping.
	nextDay int
}

// NewProactive validates the configuration against the matrix and
// builds the policy with a full pool per fraction.
func NewProactive(m *matrix.Matrix, cfg ProactiveConfig) (*Proactive, error) {
	if len(cfg.Fractions) == 0 {
		return nil, fmt.Errorf("%w: no target fractions", ErrConfig)
	}
	for _, f := range cfg.Fractions {
		if f <= 0 || f > 1 {
			return nil, fmt.Errorf("%w: target fraction %v outside (0, 1]", ErrConfig, f)
		}
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

	p := &Proactive{m: m, cfg: cfg, pools: make([][]int, len(cfg.Fractions))}
	for bin := range p.pools {
		pool := make([]int, m.Rows())
		for i := range pool {
			pool[i] = i
		}
		p.pools[bin] = pool
	}
	return p, nil
}

func (p *Proactive) Name() string        { return "proactive" }
func (p *Proactive) Bins() int           { return len(p.cfg.Fractions) }
func (p *Proactive) Latency() int        { return p.cfg.Latency }
func (p *Proactive) Duration() int       { return p.cfg.Duration }
func (p *Proactive) PoolDepleting() bool { return true }

// Label is the bin's target-coverage fraction to two decimals.
func (p *Proactive) Label(bin int) string {
	return report.FractionLabel(p.cfg.Fractions[bin])
}

// Quota is round(f*N). Note the divergent rounding: the rows actually
// depleted over the run total E*round(N*f/E) (less any short final
// pool), which need not equal round(f*N). The precision denominator is
// always round(f*N).
func (p *Proactive) Quota(bin int) int {
	return roundCount(p.cfg.Fractions[bin] * float64(p.m.Rows()))
}

// DailyQuota is round(N*f/E), the rows contacted per day. Zero is
// legal and simply yields zero-hit days.
func (p *Proactive) DailyQuota(bin int) int {
	return roundCount(float64(p.m.Rows()) * p.cfg.Fractions[bin] / float64(p.cfg.Duration))
}

// SelectForDay sorts every bin's current pool by the day's score,
// takes the top daily quota and shrinks the pool to the remainder.
// Bins are processed concurrently; each goroutine touches only its own
// pool, so the result is independent of scheduling.
func (p *Proactive) SelectForDay(ctx context.Context, day int) ([][]int, error) {
	if day != p.nextDay {
		return nil, fmt.Errorf("%w: day %d selected, expected %d", ErrConfig, day, p.nextDay)
	}
	p.nextDay++

	selected := make([][]int, len(p.pools))
	g, _ := errgroup.WithContext(ctx)
	for bin := range p.pools {
		bin := bin
		g.Go(func() error {
			order := p.m.OrderByDay(day, p.pools[bin])
			quota := p.DailyQuota(bin)
			if quota > len(order) {
				quota = len(order)
			}
			selected[bin] = order[:quota]
			p.pools[bin] = order[quota:]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return selected, nil
}

// Finalize reports precision and recall only; gain and mean recall are
// reactive-flavor metrics.
func (p *Proactive) Finalize(runID string, acc *cohort.Accumulator) *report.Report {
	return baseReport(runID, p, p.m, acc)
}
