package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tracecap/internal/clock"
	"tracecap/internal/observ"
	"tracecap/internal/pftrace"
	"tracecap/internal/prof"
	"tracecap/internal/recorder"
	"tracecap/internal/uimon"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run a capture scenario and write a Perfetto trace file",
	Args:  cobra.NoArgs,
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().String("scenario", "", "single|nested|fanout|counters|all (default: from config, else all)")
	recordCmd.Flags().Int("goroutines", 0, "goroutine count for the fanout scenario")
	recordCmd.Flags().Int("spans-each", 0, "spans opened per goroutine in the fanout scenario")
	recordCmd.Flags().String("output", "", "path to write the .pftrace file")
	recordCmd.Flags().String("dump-raw", "", "also write drained ThreadTraceData as a msgpack sidecar to this path")
	recordCmd.Flags().Bool("watch", false, "show a live terminal monitor while capturing")
	recordCmd.Flags().String("cpuprofile", "", "write a CPU profile of this run to the given path")
	recordCmd.Flags().String("memprofile", "", "write a heap profile of this run to the given path")
	recordCmd.Flags().String("runtime-trace", "", "write a Go runtime/trace execution trace to the given path")
}

// scenario names for the demo capture paths this command exercises.
const (
	scenarioSingle   = "single"
	scenarioNested   = "nested"
	scenarioFanout   = "fanout"
	scenarioCounters = "counters"
	scenarioAll      = "all"
)

func runRecord(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, found, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	if configPath != "" && !found && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), noConfigMessage)
	}
	applyRecordFlagOverrides(cmd, &cfg.Capture)

	sess := &prof.Session{}
	defer sess.Stop()
	if path, _ := cmd.Flags().GetString("cpuprofile"); path != "" {
		if err := sess.StartCPU(path); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("runtime-trace"); path != "" {
		if err := sess.StartRuntimeTrace(path); err != nil {
			return err
		}
	}

	timer := observ.NewPhaseTimer()
	recorder.Start()
	defer recorder.Stop()

	var samples chan uimon.Sample
	var watchDone chan struct{}
	if cfg.Capture.Watch {
		samples = make(chan uimon.Sample, 64)
		watchDone = make(chan struct{})
		go runMonitor(samples, watchDone)
	}

	captureIdx := timer.Begin("capture")
	threads, builder, err := capture(cfg.Capture, samples)
	timer.End(captureIdx, totalEvents(threads))
	if samples != nil {
		close(samples)
		<-watchDone
	}
	if err != nil {
		return err
	}

	serializeIdx := timer.Begin("serialize")
	for _, td := range threads {
		if err := builder.ProcessThreadData(td); err != nil {
			return err
		}
	}
	timer.End(serializeIdx, totalEvents(threads))

	writeIdx := timer.Begin("write")
	if err := builder.WriteToFile(cfg.Capture.Output); err != nil {
		return err
	}
	timer.End(writeIdx, 0)

	if path, _ := cmd.Flags().GetString("dump-raw"); path != "" {
		if err := writeDebugDump(path, threads); err != nil {
			return err
		}
	} else if cfg.Capture.DumpRaw != "" {
		if err := writeDebugDump(cfg.Capture.DumpRaw, threads); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("memprofile"); path != "" {
		if err := prof.WriteHeapProfile(path); err != nil {
			return err
		}
	}

	if !quiet {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Capture.Output)
	}
	return nil
}

func applyRecordFlagOverrides(cmd *cobra.Command, cc *captureConfig) {
	if v, _ := cmd.Flags().GetString("scenario"); v != "" {
		cc.Scenario = v
	}
	if cc.Scenario == "" {
		cc.Scenario = scenarioAll
	}
	if v, _ := cmd.Flags().GetInt("goroutines"); v > 0 {
		cc.Goroutines = v
	}
	if v, _ := cmd.Flags().GetInt("spans-each"); v > 0 {
		cc.SpansEach = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cc.Output = v
	}
	if v, _ := cmd.Flags().GetBool("watch"); v {
		cc.Watch = true
	}
}

// capture runs the selected demo scenario(s), returning one
// ThreadTraceData per goroutine that recorded anything plus the
// TraceBuilder already carrying the counter tracks those scenarios
// registered. Counter samples land in the buffer of whichever goroutine
// records them, so the main goroutine's recorder is drained once, after
// every main-goroutine scenario has run.
func capture(cc captureConfig, samples chan<- uimon.Sample) ([]recorder.ThreadTraceData, *pftrace.TraceBuilder, error) {
	builder := pftrace.New()

	var threads []recorder.ThreadTraceData
	run := func(name string) bool {
		return cc.Scenario == scenarioAll || cc.Scenario == name
	}

	if run(scenarioSingle) {
		r := recorder.Current()
		h := r.OpenSpan("single-span")
		r.CloseSpan(h)
		publishSample(samples, r)
	}

	if run(scenarioNested) {
		r := recorder.Current()
		outer := r.OpenSpan("outer", recorder.U64("depth", 0))
		inner := r.OpenSpan("inner", recorder.Str("note", "nested demo span"))
		publishSample(samples, r)
		r.CloseSpan(inner)
		r.CloseSpan(outer)
		publishSample(samples, r)
	}

	if run(scenarioCounters) {
		runCounters(builder)
	}

	if run(scenarioSingle) || run(scenarioNested) || run(scenarioCounters) {
		threads = append(threads, recorder.Current().Drain())
	}

	if run(scenarioFanout) {
		fanoutThreads, err := runFanout(cc.Goroutines, cc.SpansEach, samples)
		if err != nil {
			return nil, nil, err
		}
		threads = append(threads, fanoutThreads...)
	}

	return threads, builder, nil
}

func runFanout(n, spansEach int, samples chan<- uimon.Sample) ([]recorder.ThreadTraceData, error) {
	if n <= 0 {
		n = 1
	}
	if spansEach <= 0 {
		spansEach = 1
	}
	results := make([]recorder.ThreadTraceData, n)
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r := recorder.Current()
			for j := 0; j < spansEach; j++ {
				h := r.OpenSpan("fanout-work", recorder.U64("iteration", uint64(j)))
				r.CloseSpan(h)
				if j%8 == 0 {
					publishSample(samples, r)
				}
			}
			results[i] = r.Drain()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runCounters demonstrates the counter-track path: one integer track
// with a built-in unit and one floating-point track with a custom unit
// name, sampled through the builder's convenience methods (which append
// onto this goroutine's recorder).
func runCounters(builder *pftrace.TraceBuilder) {
	depthTrack := builder.CreateCounterTrack("demo-queue-depth", pftrace.UnitCount, 1, false)
	cpuTrack := builder.CreateCounterTrack("demo-cpu", pftrace.UnitCustom("%"), 1, false)
	depths := []int64{0, 3, 7, 12, 9, 4, 1, 0}
	for _, d := range depths {
		ts := clock.Now()
		builder.RecordCounterI64(depthTrack, ts, d)
		builder.RecordCounterF64(cpuTrack, ts, 12.5*float64(d))
	}
}

func publishSample(samples chan<- uimon.Sample, r *recorder.Recorder) {
	if samples == nil {
		return
	}
	samples <- uimon.Sample{
		TID:       r.GID(),
		OpenDepth: r.OpenDepth(),
		LastSpan:  r.LastOpenedName(),
	}
}

func totalEvents(threads []recorder.ThreadTraceData) int {
	n := 0
	for _, t := range threads {
		n += len(t.Events)
	}
	return n
}
