package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/nmellal/targeval/pkg/metrics"
)

func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]struct{} {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]struct{}, len(families))
	for _, f := range families {
		names[f.GetName()] = struct{}{}
	}
	return names
}

func TestManager(t *testing.T) {
	convey.Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		metrics.NewManager(metrics.WithPrometheusRegistry(reg))

		convey.Convey("Then the unlabeled metrics gather immediately", func() {
			names := gatherNames(t, reg)
			convey.So(names, convey.ShouldContainKey, "targeval_eval_rows_loaded")
			convey.So(names, convey.ShouldContainKey, "targeval_eval_targets_total")
			convey.So(names, convey.ShouldContainKey, "targeval_eval_load_errors_total")
		})
	})

	convey.Convey("Given a manager with a custom namespace", t, func() {
		reg := prometheus.NewRegistry()
		metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("custom"),
			metrics.WithSubsystem("scoring"),
			metrics.WithHistogramBuckets([]float64{1, 10, 100}),
		)

		convey.Convey("Then metric names follow the override", func() {
			names := gatherNames(t, reg)
			convey.So(names, convey.ShouldContainKey, "custom_scoring_rows_loaded")
			convey.So(names, convey.ShouldNotContainKey, "targeval_eval_rows_loaded")
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	convey.Convey("Given the package-level recorders", t, func() {
		convey.Convey("When recording run and report events", func() {
			metrics.RecordRun("reactive")
			metrics.RecordRunError("proactive")
			metrics.RecordRunDuration("reactive", 12.5)
			metrics.UpdateRowsLoaded(1000)
			metrics.UpdateTargetsTotal(37)
			metrics.RecordLoadError()
			metrics.RecordReportWritten("tsv")
			metrics.RecordReportError("json")

			convey.Convey("Then every family shows up in the global registry", func() {
				names := gatherNames(t, metrics.GetRegistry())
				for _, want := range []string{
					"targeval_eval_runs_total",
					"targeval_eval_run_errors_total",
					"targeval_eval_run_duration_milliseconds",
					"targeval_eval_rows_loaded",
					"targeval_eval_targets_total",
					"targeval_eval_load_errors_total",
					"targeval_eval_reports_written_total",
					"targeval_eval_report_errors_total",
				} {
					convey.So(names, convey.ShouldContainKey, want)
				}
			})
		})
	})
}
