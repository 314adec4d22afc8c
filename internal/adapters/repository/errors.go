package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("key not found")
	ErrEmptyKey   = errors.New("key must not be empty")
	ErrClosed     = errors.New("store closed")
	ErrCorrupt    = errors.New("stored value is corrupt")
	ErrMissingDSN = errors.New("mysql dsn must not be empty")
)
