// Package cohort tracks, per evaluation bin, the running set of unique
// individuals that registered a hit and the day-indexed history of
// counts.
package cohort

import (
	"context"
	"fmt"
)

// DayRecord is one day of history for a bin.
type DayRecord struct {
	// CumulativeUnique is the size of the bin's hit-id union at the
	// end of the day. Monotonically non-decreasing across days.
	CumulativeUnique int
	// DayMetric is the diagnostic recorded alongside the day, the sum
	// of same-day target flags among the selected rows.
	DayMetric int
}

// binState is owned exclusively by its bin; there is no cross-bin
// aliasing, so distinct bins can be recorded concurrently.
type binState struct {
	seen map[string]struct{}
	days []DayRecord
}

// Accumulator maintains the per-bin unique-hit unions for one
// evaluation run. It is created for a fixed number of bins and days
// and discarded with the run.
type Accumulator struct {
	bins []binState
}

// New creates an accumulator for the given number of bins and days.
func New(bins, days int, opts ...Option) *Accumulator {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Accumulator{bins: make([]binState, bins)}
	for i := range a.bins {
		a.bins[i] = binState{
			seen: make(map[string]struct{}, cfg.sizeHint),
			days: make([]DayRecord, days),
		}
	}
	return a
}

// RecordDay unions hitIDs into the bin's running set and stores the
// union cardinality together with dayMetric at the given day. Repeated
// ids never double-count, so recording the same hitIDs twice is
// idempotent. Cost is O(len(hitIDs)) amortized.
//
// Calls for distinct bins may run concurrently; calls for the same bin
// must be ordered by day.
func (a *Accumulator) RecordDay(ctx context.Context, bin, day int, hitIDs []string, dayMetric int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bin < 0 || bin >= len(a.bins) {
		return fmt.Errorf("%w: bin %d of %d", ErrBinOutOfRange, bin, len(a.bins))
	}
	b := &a.bins[bin]
	if day < 0 || day >= len(b.days) {
		return fmt.Errorf("%w: day %d of %d", ErrDayOutOfRange, day, len(b.days))
	}

	for _, id := range hitIDs {
		b.seen[id] = struct{}{}
	}
	b.days[day] = DayRecord{
		CumulativeUnique: len(b.seen),
		DayMetric:        dayMetric,
	}
	return nil
}

// Bins returns the number of tracked bins.
func (a *Accumulator) Bins() int { return len(a.bins) }

// Unique returns the current size of the bin's hit-id union.
func (a *Accumulator) Unique(bin int) int {
	return len(a.bins[bin].seen)
}

// History returns the bin's day records. The returned slice is the
// accumulator's own storage; callers must not modify it.
func (a *Accumulator) History(bin int) []DayRecord {
	return a.bins[bin].days
}
