package pftrace

// CounterUnit identifies the physical unit a counter track's samples are
// measured in. The wire schema only distinguishes unspecified / time-ns /
// count / size-bytes, so duration units other than nanoseconds fold their
// scale into the track's unit multiplier at encoding time, and a custom
// unit travels as a free-form unit name string instead.
type CounterUnit struct {
	tag   int32
	scale int64 // extra multiplier folded into unit_multiplier; 0 means 1
	name  string
}

var (
	UnitUnspecified = CounterUnit{tag: counterUnitUnspecified}
	UnitSizeBytes   = CounterUnit{tag: counterUnitSizeBytes}
	UnitCount       = CounterUnit{tag: counterUnitCount}
	UnitDurationNs  = CounterUnit{tag: counterUnitTimeNs}
	UnitDurationUs  = CounterUnit{tag: counterUnitTimeNs, scale: 1_000}
	UnitDurationMs  = CounterUnit{tag: counterUnitTimeNs, scale: 1_000_000}
	UnitDurationS   = CounterUnit{tag: counterUnitTimeNs, scale: 1_000_000_000}
)

// UnitCustom returns a caller-named unit (e.g. "%", "fps"). The name is
// displayed verbatim by the UI.
func UnitCustom(name string) CounterUnit {
	return CounterUnit{tag: counterUnitUnspecified, name: name}
}

// CounterTrack is a handle to a counter track created by
// TraceBuilder.CreateCounterTrack. ID is the small process-local handle
// passed to recorder.RecordCounterI64/F64 (whose trackID parameter is a
// bare uint32, so internal/recorder never has to import this package);
// UUID is the full track identifier the builder resolves ID to when it
// serializes each sample.
type CounterTrack struct {
	ID   uint32
	UUID uint64

	name           string
	unit           CounterUnit
	unitMultiplier int64
	isIncremental  bool
}

// Name returns the display name the track was created with.
func (t CounterTrack) Name() string { return t.name }

func encodeCounterDescriptor(t CounterTrack) []byte {
	var b []byte
	if t.unit.tag != counterUnitUnspecified {
		b = appendTagVarint(b, fieldCounterUnit, uint64(t.unit.tag))
	}
	multiplier := t.unitMultiplier
	if t.unit.scale != 0 {
		if multiplier == 0 {
			multiplier = 1
		}
		multiplier *= t.unit.scale
	}
	if multiplier != 0 && multiplier != 1 {
		b = appendTagInt64(b, fieldCounterUnitMultiplier, multiplier)
	}
	if t.isIncremental {
		b = appendTagBool(b, fieldCounterIsIncremental, t.isIncremental)
	}
	if t.unit.name != "" {
		b = appendTagString(b, fieldCounterUnitName, t.unit.name)
	}
	return b
}
