package recorder

import "sync/atomic"

// enabled gates every hot-path entry point behind a single atomic load.
// A compile-time toggle that removed this load entirely would require a
// second build of every call site, so this runtime flag is the part of
// that design this module actually implements and tests.
var enabled atomic.Bool

// Start enables recording. It may be called more than once. Any spans or
// counter samples recorded before the first call to Start are discarded,
// never buffered.
func Start() {
	enabled.Store(true)
}

// Stop disables recording. Existing per-goroutine buffers are left intact
// so a caller can still Drain them; only new events stop being recorded.
func Stop() {
	enabled.Store(false)
}

// IsEnabled reports whether recording is currently active.
func IsEnabled() bool {
	return enabled.Load()
}
