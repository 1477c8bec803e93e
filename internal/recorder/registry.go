package recorder

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// getGoroutineID extracts the current goroutine's id by parsing the
// header line of a runtime.Stack dump. This avoids linkname or unsafe
// access to the scheduler's g struct, and serves as the registry key
// that stands in for a native thread id, since Go exposes no public,
// stable thread-local storage primitive.
func getGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

var registry sync.Map // uint64 goroutine id -> *Recorder

// Current returns the calling goroutine's recorder, creating it lazily on
// first use. Callers on a hot path should call this once and keep the
// returned pointer rather than calling Current before every span, since
// the lookup itself costs a stack-trace parse plus a sync.Map access.
func Current() *Recorder {
	gid := getGoroutineID()
	if v, ok := registry.Load(gid); ok {
		return v.(*Recorder)
	}
	r := newRecorder(gid)
	actual, _ := registry.LoadOrStore(gid, r)
	return actual.(*Recorder)
}

// drop removes r from the registry. Called by Drain, since draining
// transfers ownership of the accumulated data away and the registry entry
// would otherwise pin a Recorder for a goroutine that may be about to
// exit.
func drop(gid uint64) {
	registry.Delete(gid)
}
