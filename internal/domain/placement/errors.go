package placement

import "errors"

// Sentinel kinds for placement errors.
var (
	ErrNotDraggable  = errors.New("entry has no drag binding")
	ErrDeleteModeOff = errors.New("delete mode is not active")
)
