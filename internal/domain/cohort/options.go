package cohort

// options holds construction-time tunables.
type options struct {
	sizeHint int
}

// Option applies a configuration option to the Accumulator.
type Option func(*options)

// WithSizeHint pre-sizes each bin's hit-id set. A good hint is the
// expected number of positives in the population; zero means no
// pre-sizing.
func WithSizeHint(hint int) Option {
	return func(o *options) {
		if hint > 0 {
			o.sizeHint = hint
		}
	}
}
