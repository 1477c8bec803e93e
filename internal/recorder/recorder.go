package recorder

import (
	"fmt"
	"os"

	"fortio.org/safecast"

	"tracecap/internal/clock"
)

// Recorder is the per-goroutine event buffer. It is owned exclusively by
// the goroutine that calls Current to obtain it: nothing here uses a
// lock, because nothing but that one goroutine ever touches it (counter
// samples recorded from any goroutine that holds the track handle still
// land in the recording goroutine's own Recorder).
type Recorder struct {
	buf        buffer
	names      internTable
	open       []uint32 // stack of buffer indices for currently open spans
	gid        uint64
	name       string
	lastOpened Name
}

func newRecorder(gid uint64) *Recorder {
	return &Recorder{
		buf:   newBuffer(),
		names: newInternTable(),
		gid:   gid,
	}
}

// SetName sets the display name attached to this goroutine's thread
// descriptor in the eventual trace. Optional; a thread may go unnamed.
func (r *Recorder) SetName(name string) {
	r.name = name
}

// Reserve pre-grows the buffer for at least `additional` more events.
// Purely an optimization; correctness never depends on calling it.
func (r *Recorder) Reserve(additional int) {
	r.buf.reserve(additional)
}

// OpenSpan records a begin event and returns a handle for the matching
// CloseSpan call. When recording is disabled (IsEnabled false) this reads
// no clock and touches no buffer, returning a zero Handle.
func (r *Recorder) OpenSpan(name Name, args ...Arg) Handle {
	if !IsEnabled() {
		return Handle{}
	}
	ts := clock.Now()
	nameID := r.names.intern(name)
	for i := range args {
		// Argument names are interned too; they share the same id space
		// as span names (see intern.go), but the builder emits them into
		// the Perfetto debug-annotation-name namespace, which is distinct
		// from the event-name namespace regardless of numeric overlap.
		args[i].nameID = r.names.intern(args[i].Name)
	}
	ev := event{kind: KindSpanBegin, ts: ts, nameID: nameID}
	ev.setArgs(args)
	idx := r.buf.append(ev)
	idx32, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Sprintf("recorder: buffer index overflowed uint32: %v", err))
	}
	r.open = append(r.open, idx32)
	r.lastOpened = name
	return Handle{idx: idx32, valid: true}
}

// OpenDepth reports how many spans are currently open on this goroutine.
// Not part of the hot recording path; it exists for operator-facing
// monitoring (internal/uimon) to show live nesting depth.
func (r *Recorder) OpenDepth() int {
	return len(r.open)
}

// LastOpenedName reports the most recently opened span's name, for the
// same monitoring purpose as OpenDepth.
func (r *Recorder) LastOpenedName() string {
	return string(r.lastOpened)
}

// GID reports the goroutine id this Recorder is registered under, for
// monitoring code that needs a stable per-goroutine row key.
func (r *Recorder) GID() uint64 {
	return r.gid
}

// CloseSpan records an end event at the current timestamp. Calling this
// out of LIFO order relative to OpenSpan is a contract violation: debug
// builds (tracecap_debug) panic with a diagnostic, release builds accept
// it silently and may produce a malformed trace.
func (r *Recorder) CloseSpan(h Handle) {
	if !IsEnabled() || !h.valid {
		return
	}
	r.debugAssertLIFO(h)
	if len(r.open) > 0 {
		r.open = r.open[:len(r.open)-1]
	}
	begin := r.buf.at(int(h.idx))
	r.buf.append(event{kind: KindSpanEnd, ts: clock.Now(), nameID: begin.nameID})
}

// RecordCounterI64 appends an integer counter sample to this goroutine's
// buffer. trackID identifies the counter track (see pftrace.CounterTrack);
// this package does not itself know about tracks, only their integer ids,
// to avoid an import cycle with the trace builder.
func (r *Recorder) RecordCounterI64(trackID uint32, ts uint64, value int64) {
	if !IsEnabled() {
		return
	}
	r.buf.append(event{kind: KindCounterI64, ts: ts, nameID: trackID, ival: value})
}

// RecordCounterF64 appends a floating-point counter sample.
func (r *Recorder) RecordCounterF64(trackID uint32, ts uint64, value float64) {
	if !IsEnabled() {
		return
	}
	r.buf.append(event{kind: KindCounterF64, ts: ts, nameID: trackID, fval: value})
}

// RecordedEvent is the exported, drained form of an internal event: a
// point-in-time copy safe for a different package (the trace builder) to
// read after the recording goroutine has handed it off.
type RecordedEvent struct {
	Kind       Kind
	Timestamp  uint64
	NameID     uint32
	Synthetic  bool
	Args       []Arg
	IntValue   int64
	FloatValue float64
}

// ThreadTraceData is the drainable artifact produced by Drain: the
// ordered event log, the string-intern table, and the thread identity
// snapshot for one goroutine.
type ThreadTraceData struct {
	PID        int
	TID        uint64
	ThreadName string
	Events     []RecordedEvent
	Interned   []InternedName
}

// Drain atomically replaces the buffer with an empty one and returns the
// old contents. Any span left open at drain time is synthetically closed
// at the drain timestamp rather than silently dropped.
func (r *Recorder) Drain() ThreadTraceData {
	now := clock.Now()
	for len(r.open) > 0 {
		idx := r.open[len(r.open)-1]
		r.open = r.open[:len(r.open)-1]
		begin := r.buf.at(int(idx))
		r.buf.append(event{kind: KindSpanEnd, ts: now, nameID: begin.nameID, synthetic: true})
	}

	raw := r.buf.take()
	events := make([]RecordedEvent, len(raw))
	for i, ev := range raw {
		events[i] = RecordedEvent{
			Kind:       ev.kind,
			Timestamp:  ev.ts,
			NameID:     ev.nameID,
			Synthetic:  ev.synthetic,
			Args:       ev.args(),
			IntValue:   ev.ival,
			FloatValue: ev.fval,
		}
	}

	data := ThreadTraceData{
		PID:        os.Getpid(),
		TID:        r.gid,
		ThreadName: r.name,
		Events:     events,
		Interned:   r.names.snapshot(),
	}
	r.names.reset()
	drop(r.gid)
	return data
}
