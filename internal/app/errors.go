package service

import "errors"

var (
	// ErrMissingImage is returned when an analysis has no image payload.
	ErrMissingImage = errors.New("imageData (base64) required")
	// ErrNotStarted is returned by operations called before Start.
	ErrNotStarted = errors.New("service not started")
)
