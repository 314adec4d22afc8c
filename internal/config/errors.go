package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure: a bad address, a
	// non-positive limit, an unknown store backend or scoring preset, or
	// a mysql backend without a DSN.
	ErrInvalidConfig = errors.New("invalid woundcare config")

	// ErrLoadConfig wraps failures reading .env, the WOUNDCARE_CONFIG
	// file or WOUNDCARE_* environment variables.
	ErrLoadConfig = errors.New("loading woundcare config")
)
