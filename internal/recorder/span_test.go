package recorder

import "testing"

func TestScopeClosesOnDefer(t *testing.T) {
	Start()
	defer Stop()

	r := newRecorder(1)
	func() {
		span := Scope(r, "scoped")
		defer span.Close()
	}()

	data := r.Drain()
	if len(data.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(data.Events))
	}
}

func TestScopeWithNilRecorderIsNoop(t *testing.T) {
	span := Scope(nil, "x")
	span.Close() // must not panic
}
