package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nmellal/targeval/internal/domain/report"
	"github.com/nmellal/targeval/pkg/metrics"
)

// jsonReport is the serialized shape: header counts plus per-metric
// maps of bin label to stringified value, matching the historical
// report contract. Metric maps absent when the run observed no
// targets.
type jsonReport struct {
	RunID        string            `json:"run_id"`
	Policy       string            `json:"policy"`
	Rows         string            `json:"rows"`
	TotalTargets string            `json:"total_targets"`
	TargetRate   string            `json:"target_rate"`
	Latency      string            `json:"latency"`
	EvalDays     string            `json:"eval_days"`
	Precision    map[string]string `json:"precision,omitempty"`
	Recall       map[string]string `json:"recall,omitempty"`
	Gain         map[string]string `json:"gain,omitempty"`
	MeanRecall   string            `json:"mean_recall,omitempty"`
}

// JSONSink writes one JSON report file per run, named
// <policy>_eval.json.
type JSONSink struct {
	dir string
}

// NewJSONSink creates a sink writing into dir.
func NewJSONSink(dir string) *JSONSink {
	return &JSONSink{dir: dir}
}

// Write renders and writes the report.
func (s *JSONSink) Write(ctx context.Context, rep *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := jsonReport{
		RunID:        rep.RunID,
		Policy:       rep.Policy,
		Rows:         strconv.Itoa(rep.RowCount),
		TotalTargets: strconv.Itoa(rep.TotalTargets),
		TargetRate:   formatFloat(rep.TargetRate),
		Latency:      strconv.Itoa(rep.Latency),
		EvalDays:     strconv.Itoa(rep.Duration),
	}
	if len(rep.Bins) > 0 {
		out.Precision = make(map[string]string, len(rep.Bins))
		for _, bin := range rep.Bins {
			out.Precision[bin.Label] = formatFloat(bin.Precision)
		}
	}
	if rep.HasRecall {
		out.Recall = make(map[string]string, len(rep.Bins))
		for _, bin := range rep.Bins {
			out.Recall[bin.Label] = formatFloat(bin.Recall)
		}
	}
	if rep.HasGain {
		out.Gain = make(map[string]string, len(rep.Bins))
		for _, bin := range rep.Bins {
			out.Gain[bin.Label] = formatFloat(bin.Gain)
		}
	}
	if rep.HasMeanRecall {
		out.MeanRecall = formatFloat(rep.MeanRecall)
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		metrics.RecordReportError("json")
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	path := filepath.Join(s.dir, rep.Policy+"_eval.json")
	if err := os.WriteFile(path, data, reportFilePermission); err != nil {
		metrics.RecordReportError("json")
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	metrics.RecordReportWritten("json")
	return nil
}
