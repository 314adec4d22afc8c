package scoring

import "errors"

// Sentinel kinds for scoring configuration errors.
var (
	ErrUnknownPreset  = errors.New("unknown scoring preset")
	ErrInvalidPreset  = errors.New("invalid scoring preset")
	ErrInvalidModulus = errors.New("modulus must be positive")
)
