//go:build tracecap_debug

package recorder

import "fmt"

// debugAssertLIFO panics with a diagnostic when h does not refer to the
// most recently opened, still-open span on r. Only compiled into debug
// builds (the "tracecap_debug" build tag); release builds skip this
// check entirely for speed.
func (r *Recorder) debugAssertLIFO(h Handle) {
	if len(r.open) == 0 {
		panic(fmt.Sprintf("recorder: close_span called with no open span (handle=%v)", h))
	}
	top := r.open[len(r.open)-1]
	if top != h.idx {
		panic(fmt.Sprintf(
			"recorder: non-LIFO close_span: closing handle at buffer index %d but the innermost open span is at index %d",
			h.idx, top,
		))
	}
}
