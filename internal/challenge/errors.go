package challenge

import "errors"

var (
	// ErrWrongPhase is returned when an operation is not available in
	// the session's current phase. The session is left untouched.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrNoFrame is returned by Capture when there is nothing to freeze.
	ErrNoFrame     = errors.New("no frame to capture")
	ErrUnknownCell = errors.New("unknown cell")
	ErrClosed      = errors.New("session closed")
)
