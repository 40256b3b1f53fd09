package sink

import "errors"

// Sentinel kinds for report serialization errors.
var (
	ErrWrite = errors.New("report write failed")
)
