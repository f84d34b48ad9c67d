package config

import (
	"errors"
)

// Sentinel error kinds for this package. Validation failures wrap
// ErrInvalidConfig and, where one applies, a more specific kind.
var (
	ErrInvalidConfig        = errors.New("invalid config")
	ErrLoadConfig           = errors.New("load config failed")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
)
