// Package synthetic generates score/target matrices for tests,
// benchmarks and demos. Scores correlate with upcoming events so the
// evaluators have something to find.
package synthetic

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/nmellal/targeval/internal/domain/matrix"
)

// Default generation constants.
const (
	defaultRows       = 1000
	defaultTargetDays = 37
	defaultScoreDays  = 30
	defaultTargetRate = 0.01
	defaultSignal     = 0.6
	defaultSeed       = 42
)

// Generator produces deterministic matrices for a given seed.
type Generator struct {
	rows       int
	targetDays int
	scoreDays  int
	targetRate float64
	signal     float64
	seed       int64
	uuidIDs    bool
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRows sets the number of individuals.
func WithRows(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.rows = n
		}
	}
}

// WithDays sets the number of target and score days.
func WithDays(targetDays, scoreDays int) Option {
	return func(g *Generator) {
		if targetDays > 0 && scoreDays > 0 {
			g.targetDays = targetDays
			g.scoreDays = scoreDays
		}
	}
}

// WithTargetRate sets the per-individual per-day event probability.
func WithTargetRate(rate float64) Option {
	return func(g *Generator) {
		if rate >= 0 && rate <= 1 {
			g.targetRate = rate
		}
	}
}

// WithSignal sets how strongly scores anticipate events, from 0 (pure
// noise) to 1 (oracle).
func WithSignal(signal float64) Option {
	return func(g *Generator) {
		if signal >= 0 && signal <= 1 {
			g.signal = signal
		}
	}
}

// WithSeed makes generation reproducible for a given seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithUUIDs switches ids from sequential "ind-000042" identifiers to
// random UUIDs. Generation is then no longer reproducible.
func WithUUIDs() Option {
	return func(g *Generator) { g.uuidIDs = true }
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rows:       defaultRows,
		targetDays: defaultTargetDays,
		scoreDays:  defaultScoreDays,
		targetRate: defaultTargetRate,
		signal:     defaultSignal,
		seed:       defaultSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the matrix.
func (g *Generator) Generate(ctx context.Context) (*matrix.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // deterministic seed for reproducible datasets

	ids := make([]string, g.rows)
	targets := make([][]uint8, g.rows)
	scores := make([][]float64, g.rows)

	for i := 0; i < g.rows; i++ {
		if g.uuidIDs {
			ids[i] = uuid.New().String()
		} else {
			ids[i] = fmt.Sprintf("ind-%06d", i)
		}

		trow := make([]uint8, g.targetDays)
		for d := range trow {
			if rng.Float64() < g.targetRate {
				trow[d] = 1
			}
		}
		targets[i] = trow

		// A score day peeks at the next day's flag with strength
		// signal; the rest is noise. Good models separate, bad ones
		// drown in the noise term.
		srow := make([]float64, g.scoreDays)
		for d := range srow {
			upcoming := 0.0
			if d+1 < g.targetDays && trow[d+1] != 0 {
				upcoming = 1.0
			}
			srow[d] = g.signal*upcoming + (1-g.signal)*rng.Float64()
		}
		scores[i] = srow
	}

	return matrix.New(ids, targets, scores)
}

// WriteFile serializes the matrix in the delimited layout the
// evaluation reader consumes: header line, then id, target flags and
// score values per row.
func WriteFile(ctx context.Context, m *matrix.Matrix, path string, sep rune) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("id")
	for d := 1; d <= m.TargetDays(); d++ {
		fmt.Fprintf(&b, "%ct_%d", sep, d)
	}
	for d := 1; d <= m.ScoreDays(); d++ {
		fmt.Fprintf(&b, "%cs_%d", sep, d)
	}
	b.WriteByte('\n')

	for row := 0; row < m.Rows(); row++ {
		b.WriteString(m.ID(row))
		for d := 0; d < m.TargetDays(); d++ {
			flag := 0
			if m.Target(row, d) {
				flag = 1
			}
			fmt.Fprintf(&b, "%c%d", sep, flag)
		}
		for d := 0; d < m.ScoreDays(); d++ {
			fmt.Fprintf(&b, "%c%g", sep, m.Score(row, d))
		}
		b.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
