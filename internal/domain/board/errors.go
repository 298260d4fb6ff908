package board

import "errors"

// Sentinel kinds for board errors.
var (
	ErrEmptyIdentifier  = errors.New("identifier must not be empty")
	ErrDuplicate        = errors.New("entry already exists")
	ErrUnknownEntry     = errors.New("entry not found")
	ErrUnknownContainer = errors.New("container not found")
	ErrInvalidTiers     = errors.New("invalid tier configuration")
)
