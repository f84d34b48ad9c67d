package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrSessionNotFound = errors.New("session not found")
	ErrBatchTooLarge   = errors.New("import batch too large")
	ErrEmptyBatch      = errors.New("import batch is empty")
)
