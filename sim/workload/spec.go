package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxTickBound caps max_offset and max_duration: one day of one-second ticks.
const MaxTickBound = 86_400

// GeneratorSpec parameterizes synthetic workload generation.
// Loaded from YAML via LoadGeneratorSpec(path) or embedded in a defaults file.
type GeneratorSpec struct {
	Seed          int64   `yaml:"seed"`
	NumThreads    int     `yaml:"threads"`
	NumTables     int     `yaml:"tables"`
	NumActivities int     `yaml:"activities"`
	ReadFraction  float64 `yaml:"read_fraction"`  // probability an activity is a read, in [0, 1]
	MaxOffset     int64   `yaml:"max_offset"`     // offsets drawn uniformly from [0, max_offset]
	MaxDuration   int64   `yaml:"max_duration"`   // durations drawn uniformly from [0, max_duration]
	PayloadPrefix string  `yaml:"payload_prefix"` // write payload is prefix + activity index
}

// DefaultGeneratorSpec returns the spec used when no preset is chosen.
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Seed:          42,
		NumThreads:    4,
		NumTables:     2,
		NumActivities: 20,
		ReadFraction:  0.7,
		MaxOffset:     3,
		MaxDuration:   2,
		PayloadPrefix: "value",
	}
}

// LoadGeneratorSpec reads and parses a YAML generator spec file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator spec: %w", err)
	}
	return DecodeGeneratorSpec(data)
}

// DecodeGeneratorSpec parses YAML over DefaultGeneratorSpec, so absent keys
// keep their defaults. Unknown keys are rejected.
func DecodeGeneratorSpec(data []byte) (*GeneratorSpec, error) {
	spec := DefaultGeneratorSpec()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing generator spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *GeneratorSpec) Validate() error {
	if s.NumThreads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", s.NumThreads)
	}
	if s.NumTables <= 0 {
		return fmt.Errorf("tables must be positive, got %d", s.NumTables)
	}
	if s.NumActivities < 0 {
		return fmt.Errorf("activities must be non-negative, got %d", s.NumActivities)
	}
	if s.ReadFraction < 0 || s.ReadFraction > 1 {
		return fmt.Errorf("read_fraction must be in [0, 1], got %f", s.ReadFraction)
	}
	if s.MaxOffset < 0 || s.MaxOffset > MaxTickBound {
		return fmt.Errorf("max_offset must be in [0, %d], got %d", MaxTickBound, s.MaxOffset)
	}
	if s.MaxDuration < 0 || s.MaxDuration > MaxTickBound {
		return fmt.Errorf("max_duration must be in [0, %d], got %d", MaxTickBound, s.MaxDuration)
	}
	if s.PayloadPrefix == "" {
		return fmt.Errorf("payload_prefix must be non-empty")
	}
	for _, r := range s.PayloadPrefix {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return fmt.Errorf("payload_prefix must not contain whitespace, got %q", s.PayloadPrefix)
		}
	}
	return nil
}
