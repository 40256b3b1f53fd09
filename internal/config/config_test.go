package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/nmellal/targeval/internal/config"
)

func TestNew(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then the historical evaluation defaults apply", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Separator, convey.ShouldEqual, ";")
			convey.So(cfg.IDColumn, convey.ShouldEqual, 0)
			convey.So(cfg.TargetColumns, convey.ShouldEqual, 37)
			convey.So(cfg.ScoreColumns, convey.ShouldEqual, 30)
			convey.So(cfg.EvalDuration, convey.ShouldEqual, 30)
			convey.So(cfg.ReactiveBins, convey.ShouldEqual, 20)
			convey.So(cfg.ReactiveLatency, convey.ShouldEqual, 1)
			convey.So(cfg.ProactiveLatency, convey.ShouldEqual, 7)
			convey.So(cfg.ProactiveFractions, convey.ShouldResemble,
				[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9})
			convey.So(cfg.ReportDir, convey.ShouldEqual, ".")
			convey.So(cfg.ReportFormat, convey.ShouldEqual, "tsv")
			convey.So(cfg.MetricsAddr, convey.ShouldBeBlank)
		})

		convey.Convey("Then the defaults pass validation", func() {
			loaded, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded, convey.ShouldResemble, cfg)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TARGEVAL_SCORE_FILE", "/data/scores.csv")
	t.Setenv("TARGEVAL_EVAL_DURATION", "14")
	t.Setenv("TARGEVAL_REACTIVE_BINS", "10")
	t.Setenv("TARGEVAL_REPORT_FORMAT", "json")

	convey.Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then env values replace the defaults", func() {
			convey.So(cfg.ScoreFile, convey.ShouldEqual, "/data/scores.csv")
			convey.So(cfg.EvalDuration, convey.ShouldEqual, 14)
			convey.So(cfg.ReactiveBins, convey.ShouldEqual, 10)
			convey.So(cfg.ReportFormat, convey.ShouldEqual, "json")
		})

		convey.Convey("Then untouched fields keep their defaults", func() {
			convey.So(cfg.ReactiveLatency, convey.ShouldEqual, 1)
			convey.So(cfg.ProactiveLatency, convey.ShouldEqual, 7)
			convey.So(cfg.Separator, convey.ShouldEqual, ";")
		})
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targeval.yaml")
	content := "score_file: /data/base.csv\n" +
		"eval_duration: 7\n" +
		"report_format: both\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TARGEVAL_CONFIG", path)

	convey.Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then file values replace the defaults", func() {
			convey.So(cfg.ScoreFile, convey.ShouldEqual, "/data/base.csv")
			convey.So(cfg.EvalDuration, convey.ShouldEqual, 7)
			convey.So(cfg.ReportFormat, convey.ShouldEqual, "both")
			convey.So(cfg.ReactiveBins, convey.ShouldEqual, 20)
		})
	})
}

func TestLoadEnvOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targeval.yaml")
	if err := os.WriteFile(path, []byte("score_file: /data/base.csv\neval_duration: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TARGEVAL_CONFIG", path)
	t.Setenv("TARGEVAL_EVAL_DURATION", "21")

	convey.Convey("Given a config file shadowed by an env var", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then env wins over file", func() {
			convey.So(cfg.EvalDuration, convey.ShouldEqual, 21)
			convey.So(cfg.ScoreFile, convey.ShouldEqual, "/data/base.csv")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("TARGEVAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	convey.Convey("Given an unreadable config file", t, func() {
		_, err := config.Load(context.Background())
		convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
	})
}

func TestValidateEvalDuration(t *testing.T) {
	t.Setenv("TARGEVAL_EVAL_DURATION", "0")

	convey.Convey("Given a non-positive eval duration", t, func() {
		_, err := config.Load(context.Background())
		convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestValidateReactiveBins(t *testing.T) {
	t.Setenv("TARGEVAL_REACTIVE_BINS", "-1")

	convey.Convey("Given a non-positive bin count", t, func() {
		_, err := config.Load(context.Background())
		convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestValidateLatency(t *testing.T) {
	t.Setenv("TARGEVAL_PROACTIVE_LATENCY", "0")

	convey.Convey("Given a non-positive latency", t, func() {
		_, err := config.Load(context.Background())
		convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
	})
}

func TestValidateReportFormat(t *testing.T) {
	t.Setenv("TARGEVAL_REPORT_FORMAT", "xml")

	convey.Convey("Given an unknown report format", t, func() {
		_, err := config.Load(context.Background())
		convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
	})
}
