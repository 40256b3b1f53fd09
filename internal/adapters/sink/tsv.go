package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmellal/targeval/internal/domain/report"
	"github.com/nmellal/targeval/pkg/metrics"
)

const reportFilePermission = 0o644

// TSVSink writes one tab-delimited report file per run, named
// <policy>_eval.tsv, in the layout of the historical reports.
type TSVSink struct {
	dir string
}

// NewTSVSink creates a sink writing into dir.
func NewTSVSink(dir string) *TSVSink {
	return &TSVSink{dir: dir}
}

// Write renders and writes the report. Recall, gain and mean-recall
// lines are omitted when the run observed no targets; precision and
// the header counts are always present.
func (s *TSVSink) Write(ctx context.Context, rep *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run id:\t%s\n", rep.RunID)
	fmt.Fprintf(&b, "policy:\t%s\n", rep.Policy)
	fmt.Fprintf(&b, "rows:\t%d\n", rep.RowCount)
	fmt.Fprintf(&b, "total targets:\t%d\n", rep.TotalTargets)
	fmt.Fprintf(&b, "target rate:\t%s\n", formatFloat(rep.TargetRate))
	fmt.Fprintf(&b, "latency:\t%d\n", rep.Latency)
	fmt.Fprintf(&b, "eval days:\t%d\n", rep.Duration)

	for _, bin := range rep.Bins {
		switch {
		case rep.HasGain:
			fmt.Fprintf(&b, "precision/recall/gain for %s:\t%s\t%s\t%s\n",
				bin.Label, formatFloat(bin.Precision), formatFloat(bin.Recall), formatFloat(bin.Gain))
		case rep.HasRecall:
			fmt.Fprintf(&b, "precision/recall for %s:\t%s\t%s\n",
				bin.Label, formatFloat(bin.Precision), formatFloat(bin.Recall))
		default:
			fmt.Fprintf(&b, "precision for %s:\t%s\n", bin.Label, formatFloat(bin.Precision))
		}
	}
	if rep.HasMeanRecall {
		fmt.Fprintf(&b, "mean recall:\t%s\n", formatFloat(rep.MeanRecall))
	}

	path := filepath.Join(s.dir, rep.Policy+"_eval.tsv")
	if err := os.WriteFile(path, []byte(b.String()), reportFilePermission); err != nil {
		metrics.RecordReportError("tsv")
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	metrics.RecordReportWritten("tsv")
	return nil
}
