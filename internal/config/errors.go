package config

import "errors"

// ErrInvalidConfig wraps every Validate failure. ErrLoadConfig wraps a
// layer that could not be read or decoded into Config.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
