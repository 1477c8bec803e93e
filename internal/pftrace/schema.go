// Package pftrace assembles captured thread trace data into a Perfetto
// trace file: a length-delimited stream of TracePacket protobuf messages.
//
// The Perfetto wire schema is treated as an external collaborator whose
// protocol-buffer definitions are assumed available; generating the full
// set of .pb.go structs would require running protoc, which this module
// does not do. Instead this file hand encodes the handful of messages
// this recorder needs using
// google.golang.org/protobuf/encoding/protowire, protobuf-go's own
// low-level wire-format API for exactly this situation. Field numbers
// below mirror the public Perfetto trace schema
// (protos/perfetto/trace/...) field by field.
package pftrace

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers, grouped by message. Only the fields this recorder emits
// or reads back in tests are named; the real schema has many more.
const (
	// Trace
	fieldTracePacket = 1

	// TracePacket
	fieldPacketClockSnapshot           = 6
	fieldPacketTimestamp               = 8
	fieldPacketTrustedPacketSequenceID = 10
	fieldPacketTrackEvent              = 11
	fieldPacketInternedData            = 12
	fieldPacketSequenceFlags           = 13
	fieldPacketTimestampClockID        = 58
	fieldPacketTrackDescriptor         = 60

	seqFlagIncrementalStateCleared uint64 = 1

	// TrackDescriptor
	fieldTrackUUID       = 1
	fieldTrackName       = 2
	fieldTrackProcess    = 3
	fieldTrackThread     = 4
	fieldTrackParentUUID = 5
	fieldTrackCounter    = 8

	// ProcessDescriptor
	fieldProcessPID  = 1
	fieldProcessName = 6

	// ThreadDescriptor
	fieldThreadPID  = 1
	fieldThreadTID  = 2
	fieldThreadName = 5

	// CounterDescriptor
	fieldCounterUnit           = 3
	fieldCounterUnitMultiplier = 4
	fieldCounterIsIncremental  = 5
	fieldCounterUnitName       = 6

	// TrackEvent
	fieldEventDebugAnnotations   = 4
	fieldEventType               = 9
	fieldEventNameIid            = 10
	fieldEventTrackUUID          = 11
	fieldEventCounterValue       = 30
	fieldEventDoubleCounterValue = 44

	// TrackEvent.Type
	trackEventTypeSliceBegin = 1
	trackEventTypeSliceEnd   = 2
	trackEventTypeCounter    = 4

	// DebugAnnotation
	fieldAnnotationNameIid     = 1
	fieldAnnotationBoolValue   = 2
	fieldAnnotationDoubleValue = 5
	fieldAnnotationStringValue = 6
	fieldAnnotationUint64Value = 3
	fieldAnnotationInt64Value  = 4

	// InternedData
	fieldInternedEventNames           = 2
	fieldInternedDebugAnnotationNames = 3

	// EventName / DebugAnnotationName
	fieldNameIid  = 1
	fieldNameName = 2

	// ClockSnapshot
	fieldSnapshotClocks = 1
	fieldClockID        = 1
	fieldClockTimestamp = 2

	// BuiltinClock ids referenced in the clock snapshot and as each
	// timestamped packet's timestamp_clock_id.
	clockIDRealtime  = 1
	clockIDMonotonic = 3

	// CounterDescriptor.Unit
	counterUnitUnspecified = 0
	counterUnitTimeNs      = 1
	counterUnitCount       = 2
	counterUnitSizeBytes   = 3
)

func appendTagVarint(b []byte, field int, v uint64) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendTagInt64(b []byte, field int, v int64) []byte {
	return appendTagVarint(b, field, uint64(v))
}

func appendTagBool(b []byte, field int, v bool) []byte {
	var bit uint64
	if v {
		bit = 1
	}
	return appendTagVarint(b, field, bit)
}

func appendTagFixed64(b []byte, field int, v uint64) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}

func appendTagDouble(b []byte, field int, v float64) []byte {
	return appendTagFixed64(b, field, math.Float64bits(v))
}

func appendTagString(b []byte, field int, v string) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendTagBytes(b []byte, field int, v []byte) []byte {
	b = protowire.AppendTag(b, protowire.Number(field), protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
