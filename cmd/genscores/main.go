// Command genscores writes a synthetic score/target matrix in the
// delimited layout the evaluator consumes. Useful for demos and for
// sizing runs before real scores exist.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/nmellal/targeval/internal/synthetic"
	"github.com/nmellal/targeval/pkg/logger"
)

func main() {
	rows := flag.Int("rows", 1000, "number of individuals")
	targetDays := flag.Int("target-days", 37, "number of daily target columns")
	scoreDays := flag.Int("score-days", 30, "number of daily score columns")
	rate := flag.Float64("rate", 0.01, "per-individual per-day event probability")
	signalStrength := flag.Float64("signal", 0.6, "how strongly scores anticipate events (0..1)")
	seed := flag.Int64("seed", 42, "random seed; same seed, same file")
	sep := flag.String("sep", ";", "column separator")
	out := flag.String("out", "scores.csv", "output file path")
	uuids := flag.Bool("uuids", false, "use random UUID ids instead of sequential ids")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []synthetic.Option{
		synthetic.WithRows(*rows),
		synthetic.WithDays(*targetDays, *scoreDays),
		synthetic.WithTargetRate(*rate),
		synthetic.WithSignal(*signalStrength),
		synthetic.WithSeed(*seed),
	}
	if *uuids {
		opts = append(opts, synthetic.WithUUIDs())
	}

	m, err := synthetic.NewGenerator(opts...).Generate(ctx)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}

	sepRune := ';'
	for _, r := range *sep {
		sepRune = r
		break
	}
	if err := synthetic.WriteFile(ctx, m, *out, sepRune); err != nil {
		log.Error(ctx, "write failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "matrix written",
		logger.String("out", *out),
		logger.Int("rows", m.Rows()),
		logger.Int("target_days", m.TargetDays()),
		logger.Int("score_days", m.ScoreDays()),
	)
}
