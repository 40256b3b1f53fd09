package cohort

import "errors"

// Sentinel kinds for accumulator errors.
var (
	ErrBinOutOfRange = errors.New("bin index out of range")
	ErrDayOutOfRange = errors.New("day index out of range")
)
