package pftrace

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"tracecap/internal/clock"
	"tracecap/internal/recorder"
)

// threadStream is one ingested goroutine's drained data plus the
// identifiers the builder assigned it on arrival: a thread track uuid
// and a packet sequence id of its own, so the thread's event ordering
// and interned-data ids stay scoped to one sequence on the wire.
type threadStream struct {
	data       recorder.ThreadTraceData
	trackUUID  uint64
	sequenceID uint32
}

// TraceBuilder accumulates the drained data from every recorded
// goroutine plus the counter-track registry, then serializes it all as
// one Perfetto trace: a length-delimited stream of TracePacket messages.
//
// Ingestion (CreateCounterTrack, ProcessThreadData) is guarded by a
// mutex because track creation is explicitly allowed from any goroutine;
// serialization (EncodeToVec, WriteTo, WriteToFile) is performed by one
// caller after capture has ended and is deterministic given the state
// accumulated so far: serializing twice yields identical bytes.
type TraceBuilder struct {
	mu       sync.Mutex
	ids      *idGenerator
	clockGet func() uint64

	// startTS and anchorUnixNs feed the leading clock-snapshot packet:
	// the builder's own construction time on the monotonic clock, and
	// the wall-clock instant the monotonic clock's zero corresponds to.
	startTS      uint64
	anchorUnixNs uint64

	process     processIdentity
	processUUID uint64
	descSeqID   uint32

	threads []threadStream
	tracks  []CounterTrack
	byID    map[uint32]CounterTrack
}

// Option configures a TraceBuilder at construction. Only the sources of
// non-determinism (random track uuid material, the clock, the wall-clock
// anchor) are injectable, so tests can pin all three and assert on exact
// bytes.
type Option func(*TraceBuilder)

// WithRandSource overrides the source used to generate the random half
// of every track uuid and packet sequence id.
func WithRandSource(src rand.Source) Option {
	return func(b *TraceBuilder) { b.ids = newIDGenerator(src) }
}

// WithClock overrides the nanosecond clock read used for the builder's
// own start timestamp.
func WithClock(now func() uint64) Option {
	return func(b *TraceBuilder) { b.clockGet = now }
}

// WithAnchor overrides the wall-clock instant that timestamp zero maps
// to in the clock-snapshot packet.
func WithAnchor(t time.Time) Option {
	return func(b *TraceBuilder) { b.anchorUnixNs = uint64(t.UnixNano()) }
}

// New creates a TraceBuilder, capturing the current process identity and
// the builder's own start timestamp.
func New(opts ...Option) *TraceBuilder {
	b := &TraceBuilder{
		ids:          newIDGenerator(rand.NewSource(time.Now().UnixNano())),
		clockGet:     clock.Now,
		anchorUnixNs: uint64(clock.Anchor().UnixNano()),
		process:      currentProcessIdentity(),
		byID:         make(map[uint32]CounterTrack),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.startTS = b.clockGet()
	b.processUUID = b.ids.nextTrackUUID()
	b.descSeqID = b.ids.nextSequenceID()
	return b
}

// CreateCounterTrack registers a new counter track, parented to the
// process track, and returns its handle. unitMultiplier is a display
// scale factor applied by the UI (0 is treated as 1); isIncremental
// distinguishes cumulative deltas from absolute samples. Safe to call
// from any goroutine.
func (b *TraceBuilder) CreateCounterTrack(name string, unit CounterUnit, unitMultiplier int64, isIncremental bool) CounterTrack {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := CounterTrack{
		ID:             uint32(len(b.tracks)) + 1,
		UUID:           b.ids.nextTrackUUID(),
		name:           name,
		unit:           unit,
		unitMultiplier: unitMultiplier,
		isIncremental:  isIncremental,
	}
	b.tracks = append(b.tracks, t)
	b.byID[t.ID] = t
	return t
}

// RecordCounterI64 appends an integer counter sample onto the calling
// goroutine's recorder. The sample lands in that goroutine's own buffer
// and reaches the trace when the goroutine's data is drained and handed
// to ProcessThreadData.
func (b *TraceBuilder) RecordCounterI64(track CounterTrack, ts uint64, value int64) {
	recorder.Current().RecordCounterI64(track.ID, ts, value)
}

// RecordCounterF64 appends a floating-point counter sample onto the
// calling goroutine's recorder.
func (b *TraceBuilder) RecordCounterF64(track CounterTrack, ts uint64, value float64) {
	recorder.Current().RecordCounterF64(track.ID, ts, value)
}

// ProcessThreadData moves one goroutine's drained trace data into the
// builder, assigning it a thread track and a packet sequence id. Counter
// events must reference tracks already registered with
// CreateCounterTrack; an unknown track id is an error.
func (b *TraceBuilder) ProcessThreadData(data recorder.ThreadTraceData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range data.Events {
		if ev.Kind != recorder.KindCounterI64 && ev.Kind != recorder.KindCounterF64 {
			continue
		}
		if _, ok := b.byID[ev.NameID]; !ok {
			return fmt.Errorf("pftrace: counter event references unknown track id %d", ev.NameID)
		}
	}
	b.threads = append(b.threads, threadStream{
		data:       data,
		trackUUID:  b.ids.nextTrackUUID(),
		sequenceID: b.ids.nextSequenceID(),
	})
	return nil
}

// encode serializes everything accumulated so far, in a fixed order:
// clock snapshot, process descriptor, one thread descriptor per ingested
// thread, one counter descriptor per track, then each thread's event
// stream in capture order on that thread's own packet sequence.
func (b *TraceBuilder) encode() []byte {
	var out []byte
	emit := func(p tracePacket) {
		body := p.encode()
		out = protowire.AppendTag(out, fieldTracePacket, protowire.BytesType)
		out = protowire.AppendBytes(out, body)
	}

	emit(tracePacket{
		sequenceID:       b.descSeqID,
		clearIncremental: true,
		clockSnapshot: encodeClockSnapshot([]clockReading{
			{id: clockIDMonotonic, ns: b.startTS},
			{id: clockIDRealtime, ns: b.anchorUnixNs + b.startTS},
		}),
	})
	emit(tracePacket{
		sequenceID:      b.descSeqID,
		trackDescriptor: encodeTrackDescriptorProcess(b.processUUID, b.process),
	})
	for _, ts := range b.threads {
		emit(tracePacket{
			sequenceID:      b.descSeqID,
			trackDescriptor: encodeTrackDescriptorThread(ts.trackUUID, b.processUUID, int32(ts.data.PID), ts.data.TID, ts.data.ThreadName),
		})
	}
	for _, t := range b.tracks {
		emit(tracePacket{
			sequenceID:      b.descSeqID,
			trackDescriptor: encodeTrackDescriptorCounter(t, b.processUUID),
		})
	}

	for _, ts := range b.threads {
		b.encodeThreadStream(ts, emit)
	}
	return out
}

// encodeThreadStream emits one thread's events in capture order on its
// own packet sequence, attaching interned-data entries to the first
// packet on that sequence that references each name id.
func (b *TraceBuilder) encodeThreadStream(ts threadStream, emit func(tracePacket)) {
	names := make(map[uint32]string, len(ts.data.Interned))
	for _, n := range ts.data.Interned {
		names[n.ID] = n.Name
	}
	eventNamesSent := make(map[uint32]bool, len(names))
	annotationNamesSent := make(map[uint32]bool, len(names))
	first := true

	for _, ev := range ts.data.Events {
		var pendingEventNames, pendingAnnotationNames [][]byte
		p := tracePacket{
			sequenceID:   ts.sequenceID,
			hasTimestamp: true,
			timestamp:    ev.Timestamp,
		}

		switch ev.Kind {
		case recorder.KindSpanBegin:
			if !eventNamesSent[ev.NameID] {
				eventNamesSent[ev.NameID] = true
				pendingEventNames = append(pendingEventNames, encodeEventName(ev.NameID, names[ev.NameID]))
			}
			annotations := make([][]byte, 0, len(ev.Args))
			for _, a := range ev.Args {
				if id := a.NameID(); !annotationNamesSent[id] {
					annotationNamesSent[id] = true
					pendingAnnotationNames = append(pendingAnnotationNames, encodeDebugAnnotationName(id, names[id]))
				}
				annotations = append(annotations, encodeDebugAnnotation(a))
			}
			p.trackEvent = encodeTrackEventSlice(trackEventSlice{
				trackUUID:   ts.trackUUID,
				begin:       true,
				nameIid:     ev.NameID,
				annotations: annotations,
			})
		case recorder.KindSpanEnd:
			p.trackEvent = encodeTrackEventSlice(trackEventSlice{
				trackUUID: ts.trackUUID,
				begin:     false,
			})
		case recorder.KindCounterI64:
			p.trackEvent = encodeTrackEventCounterI64(b.byID[ev.NameID].UUID, ev.IntValue)
		case recorder.KindCounterF64:
			p.trackEvent = encodeTrackEventCounterF64(b.byID[ev.NameID].UUID, ev.FloatValue)
		default:
			continue
		}

		if len(pendingEventNames) > 0 || len(pendingAnnotationNames) > 0 {
			p.internedData = encodeInternedData(pendingEventNames, pendingAnnotationNames)
		}
		if first {
			p.clearIncremental = true
			first = false
		}
		emit(p)
	}
}

// EncodeToVec returns the fully framed packet stream for everything
// ingested so far, without touching the filesystem. Serializing the same
// accumulated state twice yields byte-identical output.
func (b *TraceBuilder) EncodeToVec() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.encode()
}

// WriteTo writes the framed packet stream to w.
func (b *TraceBuilder) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.EncodeToVec())
	return int64(n), err
}

// WriteToFile creates (or truncates) path and writes the framed packet
// stream to it, closing the file before returning.
func (b *TraceBuilder) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pftrace: create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if _, err := b.WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("pftrace: write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("pftrace: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pftrace: close %s: %w", path, err)
	}
	return nil
}
