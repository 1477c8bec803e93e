package pftrace

import (
	"os"

	"fortio.org/safecast"
)

// processIdentity is the pid/name pair stamped onto the trace's single
// process track. Captured once, at TraceBuilder construction, rather
// than re-read per packet.
type processIdentity struct {
	pid  int32
	name string
}

func currentProcessIdentity() processIdentity {
	name := "tracecap"
	if len(os.Args) > 0 && os.Args[0] != "" {
		name = os.Args[0]
	}
	// ProcessDescriptor.pid is int32 on the wire.
	pid, err := safecast.Conv[int32](os.Getpid())
	if err != nil {
		pid = -1
	}
	return processIdentity{pid: pid, name: name}
}

func encodeProcessDescriptor(p processIdentity) []byte {
	var b []byte
	b = appendTagInt64(b, fieldProcessPID, int64(p.pid))
	if p.name != "" {
		b = appendTagString(b, fieldProcessName, p.name)
	}
	return b
}

func encodeThreadDescriptor(pid int32, tid uint64, name string) []byte {
	var b []byte
	b = appendTagInt64(b, fieldThreadPID, int64(pid))
	// Perfetto's ThreadDescriptor.tid is int32; goroutine ids are
	// truncated into that range. They remain unique within one process's
	// trace, which is all the schema requires.
	b = appendTagInt64(b, fieldThreadTID, int64(int32(tid)))
	if name != "" {
		b = appendTagString(b, fieldThreadName, name)
	}
	return b
}
