//go:build !tracecap_debug

package recorder

// debugAssertLIFO is a no-op in release builds: a non-LIFO CloseSpan
// call is undefined but memory-safe outside debug builds, trading the
// check for speed on the hot path.
func (r *Recorder) debugAssertLIFO(Handle) {}
