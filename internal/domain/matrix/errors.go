package matrix

import "errors"

// Sentinel kinds for matrix construction and validation errors.
var (
	ErrMalformedInput = errors.New("malformed score/target matrix")
	ErrDuplicateID    = errors.New("duplicate individual id")
	ErrMissingID      = errors.New("missing individual id")
	ErrRaggedRow      = errors.New("ragged matrix row")
)
