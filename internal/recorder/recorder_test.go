package recorder

import (
	"sync"
	"testing"
	"time"

	"tracecap/internal/clock"
)

func withEnabled(t *testing.T, fn func()) {
	t.Helper()
	Start()
	t.Cleanup(Stop)
	fn()
}

func TestOpenCloseSpanBalanced(t *testing.T) {
	withEnabled(t, func() {
		r := newRecorder(1)
		h := r.OpenSpan("foo")
		r.CloseSpan(h)

		data := r.Drain()
		if len(data.Events) != 2 {
			t.Fatalf("got %d events, want 2", len(data.Events))
		}
		if data.Events[0].Kind != KindSpanBegin || data.Events[1].Kind != KindSpanEnd {
			t.Fatalf("unexpected event kinds: %+v", data.Events)
		}
		if data.Events[1].Timestamp < data.Events[0].Timestamp {
			t.Fatalf("end timestamp before begin: %+v", data.Events)
		}
	})
}

func TestSpanDurationReflectsElapsedTime(t *testing.T) {
	withEnabled(t, func() {
		r := newRecorder(1)
		h := r.OpenSpan("foo")
		time.Sleep(time.Millisecond)
		r.CloseSpan(h)

		data := r.Drain()
		dur := time.Duration(data.Events[1].Timestamp - data.Events[0].Timestamp)
		if dur < 900*time.Microsecond {
			t.Fatalf("span duration %v, want at least 0.9ms", dur)
		}
		if dur > 100*time.Millisecond {
			t.Fatalf("span duration %v implausibly long for a 1ms sleep", dur)
		}
	})
}

func TestNestedSpansWithArgs(t *testing.T) {
	withEnabled(t, func() {
		r := newRecorder(1)
		outer := r.OpenSpan("outer", U64("k", 1))
		inner := r.OpenSpan("inner", Str("s", "hello"))
		r.CloseSpan(inner)
		r.CloseSpan(outer)

		data := r.Drain()
		if len(data.Events) != 4 {
			t.Fatalf("got %d events, want 4", len(data.Events))
		}
		outerBegin := data.Events[0]
		if len(outerBegin.Args) != 1 || outerBegin.Args[0].Kind != ArgU64 || outerBegin.Args[0].Uint() != 1 {
			t.Fatalf("unexpected outer args: %+v", outerBegin.Args)
		}
		innerBegin := data.Events[1]
		if len(innerBegin.Args) != 1 || innerBegin.Args[0].Kind != ArgString || innerBegin.Args[0].StrValue() != "hello" {
			t.Fatalf("unexpected inner args: %+v", innerBegin.Args)
		}
		// interned names: outer, k, inner, s
		if len(data.Interned) != 4 {
			t.Fatalf("got %d interned names, want 4: %+v", len(data.Interned), data.Interned)
		}
	})
}

func TestUnclosedSpanSynthesizedAtDrain(t *testing.T) {
	withEnabled(t, func() {
		r := newRecorder(1)
		r.OpenSpan("leaked")
		before := clock.Now()
		data := r.Drain()
		after := clock.Now()
		if len(data.Events) != 2 {
			t.Fatalf("got %d events, want 2", len(data.Events))
		}
		end := data.Events[1]
		if end.Kind != KindSpanEnd || !end.Synthetic {
			t.Fatalf("expected a synthetic end event, got %+v", end)
		}
		if end.Timestamp < before || end.Timestamp > after {
			t.Fatalf("synthetic end stamped at %d, want within the drain window [%d, %d]",
				end.Timestamp, before, after)
		}
	})
}

func TestDisabledRecorderProducesNoEvents(t *testing.T) {
	Stop()
	r := newRecorder(1)
	h := r.OpenSpan("foo")
	r.CloseSpan(h)
	data := r.Drain()
	if len(data.Events) != 0 {
		t.Fatalf("got %d events while disabled, want 0", len(data.Events))
	}
}

func TestManyArgsOverflowsInlineStorage(t *testing.T) {
	withEnabled(t, func() {
		r := newRecorder(1)
		h := r.OpenSpan("wide",
			U64("a", 1), U64("b", 2), U64("c", 3), U64("d", 4), U64("e", 5), U64("f", 6),
		)
		r.CloseSpan(h)
		data := r.Drain()
		begin := data.Events[0]
		if len(begin.Args) != 6 {
			t.Fatalf("got %d args, want 6", len(begin.Args))
		}
		for i, a := range begin.Args {
			if a.Uint() != uint64(i+1) {
				t.Fatalf("arg %d = %d, want %d", i, a.Uint(), i+1)
			}
		}
	})
}

func TestConcurrentGoroutinesGetDistinctRecorders(t *testing.T) {
	withEnabled(t, func() {
		const n = 4
		const spansEach = 1000

		var wg sync.WaitGroup
		results := make([]ThreadTraceData, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r := Current()
				for j := 0; j < spansEach; j++ {
					h := r.OpenSpan("w")
					r.CloseSpan(h)
				}
				results[i] = r.Drain()
			}(i)
		}
		wg.Wait()

		for i, data := range results {
			if len(data.Events) != spansEach*2 {
				t.Fatalf("goroutine %d: got %d events, want %d", i, len(data.Events), spansEach*2)
			}
			var prev uint64
			for _, ev := range data.Events {
				if ev.Timestamp < prev {
					t.Fatalf("goroutine %d: timestamps not monotonic", i)
				}
				prev = ev.Timestamp
			}
		}
	})
}
