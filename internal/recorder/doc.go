// Package recorder implements the hot recording path: one independent
// buffer per goroutine holding span-begin, span-end, and counter events,
// plus an interned-string table, with no locks, no allocation in the
// steady state, and no system calls.
//
// A goroutine obtains its recorder once via [Current] and should hold onto
// the returned pointer for calls that follow — Current does a registry
// lookup keyed by goroutine id, which is the closest Go analogue to the
// thread_local lookup the original C++/Rust designs amortize to nothing
// after the first touch. Opening and closing a span, and appending a
// counter sample, are then plain method calls on that pointer.
//
// Recording is off until [Start] is called; see enable.go. Spans opened
// before the first Start are discarded rather than buffered.
package recorder
