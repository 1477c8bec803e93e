package pftrace

import "tracecap/internal/recorder"

func encodeEventName(iid uint32, name string) []byte {
	var b []byte
	b = appendTagVarint(b, fieldNameIid, uint64(iid))
	b = appendTagString(b, fieldNameName, name)
	return b
}

func encodeDebugAnnotationName(iid uint32, name string) []byte {
	return encodeEventName(iid, name) // identical shape (EventName/DebugAnnotationName)
}

func encodeInternedData(eventNames, annotationNames [][]byte) []byte {
	var b []byte
	for _, n := range eventNames {
		b = appendTagBytes(b, fieldInternedEventNames, n)
	}
	for _, n := range annotationNames {
		b = appendTagBytes(b, fieldInternedDebugAnnotationNames, n)
	}
	return b
}

// encodeDebugAnnotation encodes one span argument as a Perfetto
// DebugAnnotation, keyed by its already-interned name id.
func encodeDebugAnnotation(a recorder.Arg) []byte {
	var b []byte
	b = appendTagVarint(b, fieldAnnotationNameIid, uint64(a.NameID()))
	switch a.Kind {
	case recorder.ArgU64:
		b = appendTagVarint(b, fieldAnnotationUint64Value, a.Uint())
	case recorder.ArgI64:
		b = appendTagInt64(b, fieldAnnotationInt64Value, a.Int())
	case recorder.ArgF64:
		b = appendTagDouble(b, fieldAnnotationDoubleValue, a.Float())
	case recorder.ArgBool:
		b = appendTagBool(b, fieldAnnotationBoolValue, a.BoolValue())
	case recorder.ArgString:
		b = appendTagString(b, fieldAnnotationStringValue, a.StrValue())
	}
	return b
}

func encodeTrackDescriptorProcess(uuid uint64, proc processIdentity) []byte {
	var b []byte
	b = appendTagVarint(b, fieldTrackUUID, uuid)
	b = appendTagBytes(b, fieldTrackProcess, encodeProcessDescriptor(proc))
	return b
}

func encodeTrackDescriptorThread(uuid, parentUUID uint64, pid int32, tid uint64, name string) []byte {
	var b []byte
	b = appendTagVarint(b, fieldTrackUUID, uuid)
	b = appendTagVarint(b, fieldTrackParentUUID, parentUUID)
	b = appendTagBytes(b, fieldTrackThread, encodeThreadDescriptor(pid, tid, name))
	return b
}

func encodeTrackDescriptorCounter(t CounterTrack, parentUUID uint64) []byte {
	var b []byte
	b = appendTagVarint(b, fieldTrackUUID, t.UUID)
	if parentUUID != 0 {
		b = appendTagVarint(b, fieldTrackParentUUID, parentUUID)
	}
	if t.name != "" {
		b = appendTagString(b, fieldTrackName, t.name)
	}
	b = appendTagBytes(b, fieldTrackCounter, encodeCounterDescriptor(t))
	return b
}

type trackEventSlice struct {
	trackUUID   uint64
	begin       bool // true: SLICE_BEGIN, false: SLICE_END
	nameIid     uint32
	annotations [][]byte
}

func encodeTrackEventSlice(e trackEventSlice) []byte {
	var b []byte
	b = appendTagVarint(b, fieldEventTrackUUID, e.trackUUID)
	typ := trackEventTypeSliceEnd
	if e.begin {
		typ = trackEventTypeSliceBegin
	}
	b = appendTagVarint(b, fieldEventType, uint64(typ))
	if e.begin {
		b = appendTagVarint(b, fieldEventNameIid, uint64(e.nameIid))
		for _, a := range e.annotations {
			b = appendTagBytes(b, fieldEventDebugAnnotations, a)
		}
	}
	return b
}

func encodeTrackEventCounterI64(trackUUID uint64, value int64) []byte {
	var b []byte
	b = appendTagVarint(b, fieldEventTrackUUID, trackUUID)
	b = appendTagVarint(b, fieldEventType, uint64(trackEventTypeCounter))
	b = appendTagInt64(b, fieldEventCounterValue, value)
	return b
}

func encodeTrackEventCounterF64(trackUUID uint64, value float64) []byte {
	var b []byte
	b = appendTagVarint(b, fieldEventTrackUUID, trackUUID)
	b = appendTagVarint(b, fieldEventType, uint64(trackEventTypeCounter))
	b = appendTagDouble(b, fieldEventDoubleCounterValue, value)
	return b
}

// clockReading is one clock's value within a ClockSnapshot: a pair of
// simultaneous readings lets the UI translate between clock domains.
type clockReading struct {
	id uint32
	ns uint64
}

func encodeClockSnapshot(readings []clockReading) []byte {
	var b []byte
	for _, r := range readings {
		var clk []byte
		clk = appendTagVarint(clk, fieldClockID, uint64(r.id))
		clk = appendTagVarint(clk, fieldClockTimestamp, r.ns)
		b = appendTagBytes(b, fieldSnapshotClocks, clk)
	}
	return b
}

// tracePacket assembles one top-level TracePacket. Only the fields this
// builder ever sets are represented; zero-value fields are omitted
// entirely rather than encoded as an explicit default, matching
// protobuf's proto3-style "absence is the default" semantics.
type tracePacket struct {
	timestamp        uint64
	hasTimestamp     bool
	sequenceID       uint32
	clearIncremental bool
	trackDescriptor  []byte
	trackEvent       []byte
	internedData     []byte
	clockSnapshot    []byte
}

func (p tracePacket) encode() []byte {
	var b []byte
	if p.sequenceID != 0 {
		b = appendTagVarint(b, fieldPacketTrustedPacketSequenceID, uint64(p.sequenceID))
	}
	if p.hasTimestamp {
		b = appendTagVarint(b, fieldPacketTimestamp, p.timestamp)
		b = appendTagVarint(b, fieldPacketTimestampClockID, clockIDMonotonic)
	}
	if p.clearIncremental {
		b = appendTagVarint(b, fieldPacketSequenceFlags, seqFlagIncrementalStateCleared)
	}
	if p.clockSnapshot != nil {
		b = appendTagBytes(b, fieldPacketClockSnapshot, p.clockSnapshot)
	}
	if p.trackDescriptor != nil {
		b = appendTagBytes(b, fieldPacketTrackDescriptor, p.trackDescriptor)
	}
	if p.internedData != nil {
		b = appendTagBytes(b, fieldPacketInternedData, p.internedData)
	}
	if p.trackEvent != nil {
		b = appendTagBytes(b, fieldPacketTrackEvent, p.trackEvent)
	}
	return b
}
