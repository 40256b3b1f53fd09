package report_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nmellal/targeval/internal/domain/report"
)

func TestFractionLabel(t *testing.T) {
	Convey("Given bin fractions", t, func() {
		Convey("Then labels are fixed to two decimals", func() {
			So(report.FractionLabel(0.1), ShouldEqual, "0.10")
			So(report.FractionLabel(0.05), ShouldEqual, "0.05")
			So(report.FractionLabel(1), ShouldEqual, "1.00")
			So(report.FractionLabel(1.0/3.0), ShouldEqual, "0.33")
		})
	})
}

func TestEmpty(t *testing.T) {
	Convey("Given the degenerate no-input state", t, func() {
		rep := report.Empty("run-1", "reactive", 1, 30)

		Convey("Then the report carries identity and shape but no metrics", func() {
			So(rep.RunID, ShouldEqual, "run-1")
			So(rep.Policy, ShouldEqual, "reactive")
			So(rep.Latency, ShouldEqual, 1)
			So(rep.Duration, ShouldEqual, 30)
			So(rep.RowCount, ShouldEqual, 0)
			So(rep.Bins, ShouldBeEmpty)
			So(rep.HasRecall, ShouldBeFalse)
			So(rep.HasGain, ShouldBeFalse)
			So(rep.HasMeanRecall, ShouldBeFalse)
		})
	})
}
