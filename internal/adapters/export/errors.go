package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrInvalidOptions = errors.New("invalid export options")
	ErrRasterize      = errors.New("rasterize failed")
	ErrEncode         = errors.New("png encode failed")
	ErrNoClipboard    = errors.New("no clipboard tool available")
	ErrSink           = errors.New("export sink failed")
)
