// Package prof wires cmd/tracecap's --cpuprofile/--memprofile/--runtime-trace
// flags to the standard runtime/pprof and runtime/trace facilities, for
// profiling the recording path itself while the demo scenarios in
// cmd/tracecap record run.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the profiling files opened for one cmd/tracecap run.
// Stop closes whichever of CPU profiling / runtime tracing were started,
// CPU profiling first, then the runtime trace.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
}

// StartCPU begins CPU profiling into path. Calling it twice on the same
// Session without an intervening Stop is an error.
func (s *Session) StartCPU(path string) error {
	if s.cpuFile != nil {
		return fmt.Errorf("prof: CPU profiling already active")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: create %s: %w", path, err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("prof: start cpu profile: %w", err)
	}
	s.cpuFile = f
	return nil
}

// StartRuntimeTrace begins a runtime/trace execution trace into path,
// independent of the Perfetto trace this module otherwise produces —
// this one is Go's own scheduler/GC trace, useful for diagnosing the
// recorder's own overhead.
func (s *Session) StartRuntimeTrace(path string) error {
	if s.traceFile != nil {
		return fmt.Errorf("prof: runtime trace already active")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: create %s: %w", path, err)
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("prof: start runtime trace: %w", err)
	}
	s.traceFile = f
	return nil
}

// WriteHeapProfile captures a heap profile to path immediately, after
// forcing a GC so the snapshot reflects live objects only.
func WriteHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: create %s: %w", path, err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("prof: write heap profile: %w", err)
	}
	return nil
}

// Stop closes out any profiling this Session started. Safe to call even
// if nothing was started.
func (s *Session) Stop() {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
}
