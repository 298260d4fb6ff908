package worker

import "errors"

// Sentinel kinds for dispatcher errors.
var (
	ErrStopped = errors.New("dispatcher stopped")
	ErrPanic   = errors.New("command panicked")
)
