package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrBusy           = errors.New("service busy")
	ErrLookupInFlight = errors.New("a lookup is already in progress")
	ErrExportInFlight = errors.New("an export is already in progress")
	ErrNoImage        = errors.New("no image generated yet")
)
