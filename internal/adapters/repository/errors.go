package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrInvalidMatchID = errors.New("invalid match id")
	ErrMissingEventID = errors.New("event without id")
	ErrClosed         = errors.New("store closed")
)
