//go:build !tracecap_fastclock

package clock

import "time"

// Now returns the current monotonic timestamp in nanoseconds since the
// clock package was initialized. It is strictly non-decreasing within a
// single goroutine; see package doc for the cross-goroutine skew contract.
//
// This is the default (non-"tracecap_fastclock") implementation: it reads
// time.Now(), which already carries Go's monotonic clock reading, and
// subtracts the anchor. See clock_fast.go for the calibrated alternative.
func Now() uint64 {
	return uint64(time.Since(anchor))
}

// Anchor returns the wall-clock instant Now's zero point corresponds to.
// The trace builder uses this to emit a clock-snapshot packet that lets
// the Perfetto UI translate recorded timestamps back to wall-clock time.
func Anchor() time.Time {
	return anchor
}
