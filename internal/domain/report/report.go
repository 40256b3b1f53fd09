// Package report defines the final metrics produced by an evaluation
// run. A Report is populated once by a completed run and read-only
// afterwards.
package report

import "fmt"

// Bin holds the final metrics of one evaluation cohort.
type Bin struct {
	// Label identifies the cohort: the population or target-coverage
	// fraction formatted to two decimals, e.g. "0.05".
	Label string
	// Quota is the precision denominator: the number of individuals
	// the policy was allowed to contact for this bin.
	Quota int
	// UniqueHits is the final cumulative-union size for the bin.
	UniqueHits int

	Precision float64
	// Recall is only meaningful when the parent report's HasRecall is
	// true.
	Recall float64
	// Gain is precision over the base target rate; reactive runs only.
	Gain float64
}

// Report aggregates one evaluation run.
type Report struct {
	// RunID correlates the report with log lines of the producing run.
	RunID string
	// Policy names the selection policy, "reactive" or "proactive".
	Policy string

	RowCount     int
	TotalTargets int
	// TargetRate is TotalTargets / RowCount, the event's base
	// occurrence rate; zero when the input is empty.
	TargetRate float64
	Latency    int
	// Duration is the number of evaluated days.
	Duration int

	Bins []Bin

	// MeanRecall is the average recall over all bins; reactive runs
	// only, and only when targets were observed.
	MeanRecall float64

	// DivisionGuard flags: recall, gain and mean recall are omitted
	// when TotalTargets is zero so no NaN or Inf ever propagates.
	HasRecall     bool
	HasGain       bool
	HasMeanRecall bool
}

// FractionLabel renders a bin fraction the way reports key it.
func FractionLabel(fraction float64) string {
	return fmt.Sprintf("%.2f", fraction)
}

// Empty returns the well-formed zeroed report emitted for the
// degenerate no-input state.
func Empty(runID, policy string, latency, duration int) *Report {
	return &Report{
		RunID:    runID,
		Policy:   policy,
		Latency:  latency,
		Duration: duration,
	}
}
