//go:build tracecap_debug

package recorder

import "testing"

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	fn()
}

func TestNonLIFOClosePanics(t *testing.T) {
	Start()
	defer Stop()

	r := newRecorder(1)
	outer := r.OpenSpan("outer")
	_ = r.OpenSpan("inner")
	mustPanic(t, func() { r.CloseSpan(outer) })
}

func TestCloseWithoutOpenPanics(t *testing.T) {
	Start()
	defer Stop()

	r := newRecorder(1)
	h := r.OpenSpan("only")
	r.CloseSpan(h)
	mustPanic(t, func() { r.CloseSpan(h) })
}
