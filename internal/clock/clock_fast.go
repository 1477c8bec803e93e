//go:build tracecap_fastclock

package clock

import (
	"time"
	_ "unsafe" // for go:linkname
)

// nanotime is the Go runtime's internal monotonic clock read. It skips the
// extra bookkeeping time.Now performs to also capture a wall-clock reading,
// which is the same saving the original crate's "fastant" feature gets by
// reading the CPU timestamp-counter directly instead of going through two
// syscalls worth of clock_gettime. Go offers no portable, assembly-free way
// to read the hardware cycle counter, so this links directly against the
// runtime's own monotonic source instead.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// fastAnchorNanotime and fastAnchorWall pin nanotime's zero point to the
// same wall-clock anchor clock.Anchor reports, established by spinning
// briefly to let both readings settle before taking a paired sample.
var (
	fastAnchorNanotime int64
	fastAnchorWall     = anchor
)

func init() {
	calibrate()
}

// calibrate spins for approximately 20ms, then pins the nanotime anchor.
// The spin exists so the first paired (nanotime, wall) sample isn't
// skewed by scheduler jitter immediately after process start.
func calibrate() {
	deadline := time.Now().Add(20 * time.Millisecond)
	for time.Now().Before(deadline) {
	}
	fastAnchorWall = time.Now()
	fastAnchorNanotime = nanotime()
}

// Now returns nanoseconds since the clock package's anchor, reading the
// runtime's monotonic counter directly instead of going through time.Now.
func Now() uint64 {
	delta := nanotime() - fastAnchorNanotime
	return uint64(fastAnchorWall.Sub(anchor)) + uint64(delta)
}

// Anchor returns the wall-clock instant Now's zero point corresponds to.
func Anchor() time.Time {
	return anchor
}
