// Package sink serializes finished evaluation reports. The evaluator
// itself only produces the report value; everything from here on is
// presentation.
package sink

import (
	"context"
	"strconv"

	"github.com/nmellal/targeval/internal/domain/report"
)

// Sink writes a finished report somewhere.
type Sink interface {
	Write(ctx context.Context, rep *report.Report) error
}

// formatFloat renders metric values the way reports key them:
// shortest representation that round-trips, bit-reproducible for a
// given input.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
