package delimtext

import "errors"

// Sentinel kinds for score file reading errors.
var (
	// ErrOpen means the file could not be opened at all; callers may
	// degrade this to the empty-input state.
	ErrOpen = errors.New("score file open failed")
	// ErrSchema means the file does not match the declared column layout.
	ErrSchema = errors.New("score file schema mismatch")
	// ErrParse means a data cell could not be parsed.
	ErrParse = errors.New("score file parse failed")
)
