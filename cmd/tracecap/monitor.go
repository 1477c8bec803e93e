package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tracecap/internal/uimon"
)

// runMonitor drives the live --watch terminal view for the duration of a
// capture. It returns once the samples channel is closed and the
// bubbletea program has quit; close(done) signals the caller it is safe
// to move on to serialization.
func runMonitor(samples <-chan uimon.Sample, done chan<- struct{}) {
	defer close(done)
	model := uimon.NewModel("tracecap record", samples, 16)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tracecap: monitor: %v\n", err)
	}
}
