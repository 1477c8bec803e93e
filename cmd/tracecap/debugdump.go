package main

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"tracecap/internal/recorder"
)

// dumpRawSchemaVersion is incremented whenever the sidecar payload
// shape changes, so stale dumps are detectable by their header.
const dumpRawSchemaVersion uint16 = 1

// debugDumpPayload is what --dump-raw writes: the exact drained data
// every goroutine handed to the trace builder, independent of and prior
// to Perfetto encoding, for debugging the capture pipeline itself. The
// recorder's own types keep their argument payloads unexported, so the
// dump flattens them into its own wire structs.
type debugDumpPayload struct {
	Schema  uint16       `msgpack:"schema"`
	Threads []dumpThread `msgpack:"threads"`
}

type dumpThread struct {
	PID        int                     `msgpack:"pid"`
	TID        uint64                  `msgpack:"tid"`
	ThreadName string                  `msgpack:"thread_name"`
	Events     []dumpEvent             `msgpack:"events"`
	Interned   []recorder.InternedName `msgpack:"interned"`
}

type dumpEvent struct {
	Kind       uint8     `msgpack:"kind"`
	Timestamp  uint64    `msgpack:"ts"`
	NameID     uint32    `msgpack:"name_id"`
	Synthetic  bool      `msgpack:"synthetic,omitempty"`
	Args       []dumpArg `msgpack:"args,omitempty"`
	IntValue   int64     `msgpack:"ival,omitempty"`
	FloatValue float64   `msgpack:"fval,omitempty"`
}

type dumpArg struct {
	Name string  `msgpack:"name"`
	Kind uint8   `msgpack:"kind"`
	U64  uint64  `msgpack:"u64,omitempty"`
	I64  int64   `msgpack:"i64,omitempty"`
	F64  float64 `msgpack:"f64,omitempty"`
	Bool bool    `msgpack:"bool,omitempty"`
	Str  string  `msgpack:"str,omitempty"`
}

func flattenArg(a recorder.Arg) dumpArg {
	out := dumpArg{Name: string(a.Name), Kind: uint8(a.Kind)}
	switch a.Kind {
	case recorder.ArgU64:
		out.U64 = a.Uint()
	case recorder.ArgI64:
		out.I64 = a.Int()
	case recorder.ArgF64:
		out.F64 = a.Float()
	case recorder.ArgBool:
		out.Bool = a.BoolValue()
	case recorder.ArgString:
		out.Str = a.StrValue()
	}
	return out
}

func flattenThread(td recorder.ThreadTraceData) dumpThread {
	out := dumpThread{
		PID:        td.PID,
		TID:        td.TID,
		ThreadName: td.ThreadName,
		Events:     make([]dumpEvent, len(td.Events)),
		Interned:   td.Interned,
	}
	for i, ev := range td.Events {
		de := dumpEvent{
			Kind:       uint8(ev.Kind),
			Timestamp:  ev.Timestamp,
			NameID:     ev.NameID,
			Synthetic:  ev.Synthetic,
			IntValue:   ev.IntValue,
			FloatValue: ev.FloatValue,
		}
		for _, a := range ev.Args {
			de.Args = append(de.Args, flattenArg(a))
		}
		out.Events[i] = de
	}
	return out
}

func writeDebugDump(path string, threads []recorder.ThreadTraceData) error {
	payload := debugDumpPayload{Schema: dumpRawSchemaVersion}
	for _, td := range threads {
		payload.Threads = append(payload.Threads, flattenThread(td))
	}
	b, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("debugdump: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("debugdump: write %s: %w", path, err)
	}
	return nil
}
