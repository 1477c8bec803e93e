package observ

import (
	"strings"
	"testing"
	"time"
)

func TestPhaseDurationAndRate(t *testing.T) {
	pt := NewPhaseTimer()
	idx := pt.Begin("capture")
	time.Sleep(time.Millisecond)
	pt.End(idx, 2000)

	phases := pt.Phases()
	if len(phases) != 1 {
		t.Fatalf("got %d phases, want 1", len(phases))
	}
	p := phases[0]
	if p.DurNS < uint64(900*time.Microsecond) {
		t.Fatalf("phase duration %dns, want at least 0.9ms", p.DurNS)
	}
	if p.Rate() <= 0 {
		t.Fatalf("expected a positive event rate, got %v", p.Rate())
	}
}

func TestEndOutOfRangeIgnored(t *testing.T) {
	pt := NewPhaseTimer()
	pt.End(0, 1)  // nothing begun
	pt.End(-1, 1) // must not panic
	if len(pt.Phases()) != 0 {
		t.Fatalf("expected no phases, got %d", len(pt.Phases()))
	}
}

func TestSummaryListsEveryPhaseAndTotal(t *testing.T) {
	pt := NewPhaseTimer()
	a := pt.Begin("capture")
	pt.End(a, 13)
	b := pt.Begin("write")
	pt.End(b, 0)

	s := pt.Summary()
	for _, want := range []string{"capture", "write", "total", "13 events"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "0 events") {
		t.Fatalf("eventless phase should not print an event count:\n%s", s)
	}
}
