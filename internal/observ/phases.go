// Package observ reports wall-clock timings for the stages of a capture
// run (capture, serialize, write) on cmd/tracecap's console. Durations
// are read from internal/clock — the same monotonic source the recorded
// events are stamped with — so the summary's numbers line up with the
// timestamps inside the trace file it describes.
package observ

import (
	"fmt"
	"strings"
	"time"

	"tracecap/internal/clock"
)

// Phase is one completed stage of a capture run: its duration on the
// trace clock and the number of recorded events that flowed through it.
type Phase struct {
	Name    string
	DurNS   uint64
	Events  int
	startNS uint64
}

// Rate returns the phase's throughput in events per second. Zero when
// the phase carried no events or finished below clock resolution.
func (p Phase) Rate() float64 {
	if p.Events == 0 || p.DurNS == 0 {
		return 0
	}
	return float64(p.Events) / (float64(p.DurNS) / float64(time.Second))
}

// PhaseTimer accumulates the phases of one capture run.
type PhaseTimer struct {
	phases []Phase
}

func NewPhaseTimer() *PhaseTimer { return &PhaseTimer{} }

// Begin opens a new phase at the current trace timestamp and returns its
// index for the matching End call.
func (t *PhaseTimer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, startNS: clock.Now()})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin, attributing events recorded
// events to it. Out-of-range indices are ignored.
func (t *PhaseTimer) End(idx, events int) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.DurNS = clock.Now() - p.startNS
	p.Events = events
}

// Phases returns the phases tracked so far, in Begin order.
func (t *PhaseTimer) Phases() []Phase {
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Summary renders the per-phase durations, event counts, and throughput
// plus a total, for cmd/tracecap record's console output.
func (t *PhaseTimer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	var totalNS uint64
	for _, p := range t.phases {
		totalNS += p.DurNS
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, millis(p.DurNS))
		if p.Events > 0 {
			fmt.Fprintf(&b, "  %d events", p.Events)
			if rate := p.Rate(); rate > 0 {
				fmt.Fprintf(&b, " (%.0f/s)", rate)
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", millis(totalNS))
	return b.String()
}

func millis(ns uint64) float64 {
	return float64(ns) / float64(time.Millisecond)
}
