package capture

import "time"

// SamplerStats summarises grab behaviour for instrumentation.
type SamplerStats struct {
	Grabs      uint64
	Failures   uint64
	AvgGrab    time.Duration
	LastGrabAt time.Time
}
