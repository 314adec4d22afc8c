package conformance

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Defaults applied by Run to zero-valued Config fields.
const (
	DefaultPayloads = 100
	DefaultRepeat   = 2
	DefaultWorkers  = 8
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 2048
	maxMismatches   = 20
)
