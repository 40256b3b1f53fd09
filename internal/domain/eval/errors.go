package eval

import "errors"

// Sentinel kinds for evaluation configuration errors. Malformed matrix
// errors carry the matrix package's kinds instead.
var (
	ErrConfig = errors.New("invalid evaluation configuration")
)
