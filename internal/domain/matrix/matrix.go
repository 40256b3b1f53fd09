// Package matrix holds the materialized score/target matrix the
// evaluators consume. The matrix is read-only after construction.
package matrix

import (
	"fmt"
	"slices"
	"strings"
)

// Matrix is one row per individual: a unique id, T daily target flags
// (event occurred on that day) and S daily propensity scores (higher
// means more likely). Rows and columns are fixed for the lifetime of a
// run.
type Matrix struct {
	ids     []string
	targets [][]uint8
	scores  [][]float64

	targetDays int
	scoreDays  int
}

// New validates and wraps the supplied columns. All three slices must
// have the same number of rows, ids must be unique and every row must
// carry the same number of target and score days.
func New(ids []string, targets [][]uint8, scores [][]float64) (*Matrix, error) {
	if len(targets) != len(ids) || len(scores) != len(ids) {
		return nil, fmt.Errorf("%w: %d ids, %d target rows, %d score rows",
			ErrRaggedRow, len(ids), len(targets), len(scores))
	}

	m := &Matrix{ids: ids, targets: targets, scores: scores}
	if len(ids) > 0 {
		m.targetDays = len(targets[0])
		m.scoreDays = len(scores[0])
	}

	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: row %d has an empty id", ErrMissingID, i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}

		if len(targets[i]) != m.targetDays || len(scores[i]) != m.scoreDays {
			return nil, fmt.Errorf("%w: row %d has %d target and %d score days, want %d and %d",
				ErrRaggedRow, i, len(targets[i]), len(scores[i]), m.targetDays, m.scoreDays)
		}
	}
	return m, nil
}

// Empty returns a zero-row matrix, the degenerate state produced when
// the upstream score file is unreadable.
func Empty() *Matrix {
	return &Matrix{}
}

// Rows returns the number of individuals.
func (m *Matrix) Rows() int { return len(m.ids) }

// TargetDays returns T, the number of daily target columns.
func (m *Matrix) TargetDays() int { return m.targetDays }

// ScoreDays returns S, the number of daily score columns.
func (m *Matrix) ScoreDays() int { return m.scoreDays }

// ID returns the identifier of the given row.
func (m *Matrix) ID(row int) string { return m.ids[row] }

// Target reports whether the event occurred for row on the given day.
func (m *Matrix) Target(row, day int) bool { return m.targets[row][day] != 0 }

// Score returns the propensity score of row for the given day.
func (m *Matrix) Score(row, day int) float64 { return m.scores[row][day] }

// Validate checks that the matrix can support an evaluation of the
// given duration and latency: every scoring day needs a fully defined
// look-ahead window.
func (m *Matrix) Validate(evalDuration, latency int) error {
	if m.Rows() == 0 {
		return nil
	}
	if m.targetDays < m.scoreDays+latency-1 {
		return fmt.Errorf("%w: %d target days cannot cover %d score days at latency %d",
			ErrMalformedInput, m.targetDays, m.scoreDays, latency)
	}
	if evalDuration > m.scoreDays {
		return fmt.Errorf("%w: eval duration %d exceeds %d score days",
			ErrMalformedInput, evalDuration, m.scoreDays)
	}
	if evalDuration+latency-1 > m.targetDays {
		return fmt.Errorf("%w: eval duration %d at latency %d needs %d target days, have %d",
			ErrMalformedInput, evalDuration, latency, evalDuration+latency-1, m.targetDays)
	}
	return nil
}

// OrderByDay returns the given rows ordered by that day's score,
// descending, ties broken by id ascending so the ordering is
// bit-reproducible. A nil rows slice means all rows. The input slice is
// never modified.
func (m *Matrix) OrderByDay(day int, rows []int) []int {
	var order []int
	if rows == nil {
		order = make([]int, m.Rows())
		for i := range order {
			order[i] = i
		}
	} else {
		order = slices.Clone(rows)
	}
	slices.SortFunc(order, func(a, b int) int {
		sa, sb := m.scores[a][day], m.scores[b][day]
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return strings.Compare(m.ids[a], m.ids[b])
	})
	return order
}

// HitWithin reports whether the row's event occurs anywhere in the
// latency window [day, day+latency-1].
func (m *Matrix) HitWithin(row, day, latency int) bool {
	for d := day; d < day+latency; d++ {
		if m.targets[row][d] != 0 {
			return true
		}
	}
	return false
}

// TotalTargets sums the target flags over the first days target
// columns, clamped to the available columns. Evaluators call this with
// evalDuration+latency-1 so the total matches the horizon hits can
// fall into.
func (m *Matrix) TotalTargets(days int) int {
	if days > m.targetDays {
		days = m.targetDays
	}
	total := 0
	for _, row := range m.targets {
		for d := 0; d < days; d++ {
			if row[d] != 0 {
				total++
			}
		}
	}
	return total
}
