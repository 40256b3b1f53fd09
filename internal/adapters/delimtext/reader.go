// Package delimtext reads the upstream delimited score file into a
// score/target matrix. One header line, then one row per individual
// with the id column followed by the daily target flags and the daily
// score values.
package delimtext

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nmellal/targeval/internal/domain/matrix"
)

// Schema describes the significant columns of the score file.
type Schema struct {
	// IDColumn is the index of the unique id column.
	IDColumn int
	// TargetColumns is T, the number of daily target-flag columns.
	TargetColumns int
	// ScoreColumns is S, the number of daily score columns.
	ScoreColumns int
}

// Reader parses delimited score files.
type Reader struct {
	sep rune
}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithSeparator sets the column separator. The upstream files use ';'.
func WithSeparator(sep rune) Option {
	return func(r *Reader) {
		if sep != 0 {
			r.sep = sep
		}
	}
}

// NewReader creates a reader with configuration options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{sep: ';'}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses the file at path into a matrix. An unopenable file is an
// ErrOpen the caller may degrade to the empty-input state; anything
// wrong inside the file is malformed input and fails the run.
func (r *Reader) Read(ctx context.Context, path string, s Schema) (*matrix.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = r.sep
	cr.ReuseRecord = true

	records := 0
	wantCols := 1 + s.TargetColumns + s.ScoreColumns

	var (
		ids     []string
		targets [][]uint8
		scores  [][]float64
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrParse, records, err)
		}
		records++
		if records == 1 {
			// Header line carries the column names.
			if len(rec) < wantCols {
				return nil, fmt.Errorf("%w: %d columns, want at least %d", ErrSchema, len(rec), wantCols)
			}
			continue
		}
		if s.IDColumn >= len(rec) {
			return nil, fmt.Errorf("%w: id column %d missing in record %d", ErrSchema, s.IDColumn, records)
		}

		ids = append(ids, rec[s.IDColumn])

		// Data columns follow the file order with the id column
		// removed: targets first, then scores.
		data := make([]string, 0, len(rec)-1)
		data = append(data, rec[:s.IDColumn]...)
		data = append(data, rec[s.IDColumn+1:]...)

		trow := make([]uint8, s.TargetColumns)
		for d := 0; d < s.TargetColumns; d++ {
			v, err := strconv.Atoi(data[d])
			if err != nil || (v != 0 && v != 1) {
				return nil, fmt.Errorf("%w: record %d target day %d: %q is not a 0/1 flag",
					ErrParse, records, d+1, data[d])
			}
			trow[d] = uint8(v)
		}
		srow := make([]float64, s.ScoreColumns)
		for d := 0; d < s.ScoreColumns; d++ {
			v, err := strconv.ParseFloat(data[s.TargetColumns+d], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: record %d score day %d: %w", ErrParse, records, d+1, err)
			}
			srow[d] = v
		}
		targets = append(targets, trow)
		scores = append(scores, srow)
	}

	return matrix.New(ids, targets, scores)
}
