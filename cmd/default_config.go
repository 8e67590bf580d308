package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// RunDefaults are run-command settings in the defaults file. Empty values
// leave the flag default in place.
type RunDefaults struct {
	TimeUnit string `yaml:"time_unit"`
	OutDir   string `yaml:"out_dir"`
	LogFile  string `yaml:"log_file"`
	Echo     bool   `yaml:"echo"`
	Summary  string `yaml:"summary"`
	Plot     string `yaml:"plot"`
}

// Config represents the full defaults file structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version   string               `yaml:"version"`
	Run       RunDefaults          `yaml:"run"`
	Workloads map[string]yaml.Node `yaml:"workloads"` // decoded per preset by GetWorkloadPreset
}

// loadDefaultsConfig parses the defaults file into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults YAML %s: %w", path, err)
	}
	return cfg, nil
}

// validateTickUnit rejects tick lengths that cannot drive a run.
func validateTickUnit(unit time.Duration) error {
	if unit <= 0 {
		return fmt.Errorf("tick unit must be positive, got %v", unit)
	}
	return nil
}

// applyRunDefaults copies defaults into run flags the user did not set.
func applyRunDefaults(cmd *cobra.Command, d RunDefaults) error {
	flags := cmd.Flags()
	if d.TimeUnit != "" && !flags.Changed("time-unit") {
		unit, err := time.ParseDuration(d.TimeUnit)
		if err != nil {
			return fmt.Errorf("run.time_unit: %w", err)
		}
		if err := validateTickUnit(unit); err != nil {
			return fmt.Errorf("run.time_unit: %w", err)
		}
		tickUnit = unit
	}
	if d.OutDir != "" && !flags.Changed("out-dir") {
		outDir = d.OutDir
	}
	if d.LogFile != "" && !flags.Changed("log-file") {
		logFileName = d.LogFile
	}
	if d.Echo && !flags.Changed("echo") {
		echo = true
	}
	if d.Summary != "" && !flags.Changed("summary") {
		summaryPath = d.Summary
	}
	if d.Plot != "" && !flags.Changed("plot") {
		plotPath = d.Plot
	}
	return nil
}
