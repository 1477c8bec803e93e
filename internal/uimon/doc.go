// Package uimon is a live terminal monitor for an in-flight capture: a
// bubbletea model that renders per-goroutine open-span depth and the most
// recent counter-track values while cmd/tracecap record runs with
// --watch. It is not required by any invariant of the recording or
// serialization path; it exists purely to make a running capture visible.
package uimon
