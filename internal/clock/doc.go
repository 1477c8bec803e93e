// Package clock supplies the monotonic nanosecond timestamps that the
// recorder stamps onto every span and counter event.
//
// Two implementations exist, selected at compile time rather than by a
// runtime flag, since a runtime branch on every timestamp read would erase
// most of the savings the fast path exists to capture:
//
//   - the default build uses [time.Now], anchored once at package init so
//     that Now returns nanoseconds since that anchor instead of since the
//     Unix epoch;
//   - building with the "tracecap_fastclock" tag swaps in a reader
//     calibrated against the Go runtime's internal monotonic counter,
//     bypassing the extra bookkeeping time.Now performs, at the cost of a
//     ~20ms calibration spin during init.
//
// Both must be strictly monotonic non-decreasing within one goroutine and
// comparable across goroutines to within a few hundred nanoseconds of
// clock skew.
package clock
