package eval_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nmellal/targeval/internal/domain/eval"
	"github.com/nmellal/targeval/internal/domain/matrix"
)

func TestProactive(t *testing.T) {
	Convey("Given ten rows with a ranking crossover between the two days", t, func() {
		ctx := context.Background()
		m := crossoverMatrix()

		p, err := eval.NewProactive(m, eval.ProactiveConfig{
			Fractions: []float64{0.5},
			Duration:  2,
			Latency:   1,
		})
		So(err, ShouldBeNil)

		Convey("Then the daily quota spreads the fraction over the horizon", func() {
			// 10 * 0.5 / 2 = 2.5 rounds half away from zero.
			So(p.DailyQuota(0), ShouldEqual, 3)
			So(p.Quota(0), ShouldEqual, 5)
			So(p.Label(0), ShouldEqual, "0.50")
			So(p.PoolDepleting(), ShouldBeTrue)
		})

		Convey("When selecting both days in order", func() {
			day0, err := p.SelectForDay(ctx, 0)
			So(err, ShouldBeNil)
			day1, err := p.SelectForDay(ctx, 1)
			So(err, ShouldBeNil)

			Convey("Then each day takes the daily quota", func() {
				So(len(day0[0]), ShouldEqual, 3)
				So(len(day1[0]), ShouldEqual, 3)
			})

			Convey("Then no row is ever contacted twice", func() {
				contacted := map[int]struct{}{}
				for _, r := range day0[0] {
					contacted[r] = struct{}{}
				}
				for _, r := range day1[0] {
					So(contacted, ShouldNotContainKey, r)
				}
			})
		})

		Convey("When selecting days out of order", func() {
			_, err := p.SelectForDay(ctx, 1)

			Convey("Then the depletion guard rejects the call", func() {
				So(err, ShouldWrap, eval.ErrConfig)
			})
		})

		Convey("When running the full evaluation", func() {
			rep, err := eval.Run(ctx, m, p, eval.WithRunID("run-proactive"))
			So(err, ShouldBeNil)

			Convey("Then the depleting hand count holds", func() {
				// Day 0 contacts c01..c03 and credits c01; day 1's pool
				// no longer holds them, contacts c06..c08 and credits
				// c06. c02's day-1 event is missed by depletion.
				So(rep.Policy, ShouldEqual, "proactive")
				So(rep.TotalTargets, ShouldEqual, 3)
				So(rep.Bins[0].UniqueHits, ShouldEqual, 2)
				So(rep.Bins[0].Precision, ShouldAlmostEqual, 2.0/5.0)
				So(rep.HasRecall, ShouldBeTrue)
				So(rep.Bins[0].Recall, ShouldAlmostEqual, 2.0/3.0)
			})

			Convey("Then the reactive-only metrics stay omitted", func() {
				So(rep.HasGain, ShouldBeFalse)
				So(rep.HasMeanRecall, ShouldBeFalse)
			})
		})
	})
}

func TestProactiveQuotaRounding(t *testing.T) {
	Convey("Given a fraction whose daily and overall quotas round apart", t, func() {
		ids := make([]string, 10)
		targets := make([][]uint8, 10)
		scores := make([][]float64, 10)
		for i := range ids {
			ids[i] = string(rune('a' + i))
			targets[i] = make([]uint8, 4)
			scores[i] = []float64{0.1, 0.2, 0.3, 0.4}
		}
		m, err := matrix.New(ids, targets, scores)
		So(err, ShouldBeNil)

		p, err := eval.NewProactive(m, eval.ProactiveConfig{
			Fractions: []float64{0.3},
			Duration:  4,
			Latency:   1,
		})
		So(err, ShouldBeNil)

		Convey("Then the precision denominator keeps the overall rounding", func() {
			// round(10*0.3/4) = 1 per day, four days deplete 4 rows,
			// yet the denominator stays round(10*0.3) = 3.
			So(p.DailyQuota(0), ShouldEqual, 1)
			So(p.Quota(0), ShouldEqual, 3)
		})
	})
}

func TestProactiveZeroDailyQuota(t *testing.T) {
	Convey("Given a fraction too small to contact anyone per day", t, func() {
		ctx := context.Background()
		m, err := matrix.New(
			[]string{"a", "b", "c", "d"},
			[][]uint8{{1, 0}, {0, 1}, {0, 0}, {0, 0}},
			[][]float64{{0.9, 0.1}, {0.8, 0.2}, {0.7, 0.3}, {0.6, 0.4}},
		)
		So(err, ShouldBeNil)

		p, err := eval.NewProactive(m, eval.ProactiveConfig{
			Fractions: []float64{0.1},
			Duration:  2,
			Latency:   1,
		})
		So(err, ShouldBeNil)
		So(p.DailyQuota(0), ShouldEqual, 0)

		Convey("When running the evaluation", func() {
			rep, err := eval.Run(ctx, m, p)
			So(err, ShouldBeNil)

			Convey("Then the run completes with zero-hit days", func() {
				So(rep.Bins[0].UniqueHits, ShouldEqual, 0)
				So(rep.Bins[0].Precision, ShouldEqual, 0)
				So(rep.TotalTargets, ShouldEqual, 2)
			})
		})
	})
}

func TestProactiveIndependentPools(t *testing.T) {
	Convey("Given two fractions over the same matrix", t, func() {
		ctx := context.Background()
		m := crossoverMatrix()

		p, err := eval.NewProactive(m, eval.ProactiveConfig{
			Fractions: []float64{0.2, 1.0},
			Duration:  2,
			Latency:   1,
		})
		So(err, ShouldBeNil)

		Convey("When selecting a day", func() {
			selected, err := p.SelectForDay(ctx, 0)
			So(err, ShouldBeNil)

			Convey("Then each bin drew its quota from its own full pool", func() {
				So(len(selected[0]), ShouldEqual, 1)
				So(len(selected[1]), ShouldEqual, 5)
				So(selected[1][0], ShouldEqual, selected[0][0])
			})
		})

		Convey("When the horizon exhausts the wide bin's pool", func() {
			_, err := p.SelectForDay(ctx, 0)
			So(err, ShouldBeNil)
			day1, err := p.SelectForDay(ctx, 1)
			So(err, ShouldBeNil)

			Convey("Then the final day is clamped to the remaining pool", func() {
				So(len(day1[1]), ShouldEqual, 5)
			})
		})
	})
}

func TestNewProactiveValidation(t *testing.T) {
	Convey("Given a well-formed two-day matrix", t, func() {
		m, err := matrix.New(
			[]string{"a"},
			[][]uint8{{0, 0}},
			[][]float64{{0.5, 0.5}},
		)
		So(err, ShouldBeNil)

		Convey("Then missing or out-of-range fractions are rejected", func() {
			_, err := eval.NewProactive(m, eval.ProactiveConfig{Duration: 2, Latency: 1})
			So(err, ShouldWrap, eval.ErrConfig)

			_, err = eval.NewProactive(m, eval.ProactiveConfig{Fractions: []float64{0}, Duration: 2, Latency: 1})
			So(err, ShouldWrap, eval.ErrConfig)

			_, err = eval.NewProactive(m, eval.ProactiveConfig{Fractions: []float64{1.5}, Duration: 2, Latency: 1})
			So(err, ShouldWrap, eval.ErrConfig)
		})

		Convey("Then non-positive knobs are rejected", func() {
			_, err := eval.NewProactive(m, eval.ProactiveConfig{Fractions: []float64{0.5}, Duration: 0, Latency: 1})
			So(err, ShouldWrap, eval.ErrConfig)

			_, err = eval.NewProactive(m, eval.ProactiveConfig{Fractions: []float64{0.5}, Duration: 2, Latency: 0})
			So(err, ShouldWrap, eval.ErrConfig)
		})
	})
}
