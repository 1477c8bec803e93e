package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const noConfigMessage = "no tracecap.toml found; using flag defaults and/or command-line overrides"

// config is the tracecap.toml file shape: a small typed struct loaded
// with BurntSushi/toml, whose values flag parsing is then allowed to
// override.
type config struct {
	Capture captureConfig `toml:"capture"`
}

type captureConfig struct {
	Scenario    string `toml:"scenario"`
	Goroutines  int    `toml:"goroutines"`
	SpansEach   int    `toml:"spans_each"`
	Output      string `toml:"output"`
	DumpRaw     string `toml:"dump_raw"`
	Watch       bool   `toml:"watch"`
}

func defaultConfig() config {
	return config{Capture: captureConfig{
		Scenario:   "all",
		Goroutines: 4,
		SpansEach:  100,
		Output:     "capture.pftrace",
	}}
}

func loadConfig(path string) (config, bool, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, false, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return cfg, true, nil
}
