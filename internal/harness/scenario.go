package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one circuit, how to
// execute it, and what to assert about the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuits is the directory of CUE circuit files, relative to the
	// scenario file unless absolute.
	Circuits string `yaml:"circuits"`

	// Circuit names which circuit in the directory to execute.
	Circuit string `yaml:"circuit"`

	// Trials is the number of sampled executions. Ignored when Draws is
	// set; defaults to 1 otherwise.
	Trials int `yaml:"trials,omitempty"`

	// Seed fixes the PCG source for sampled trials.
	Seed uint64 `yaml:"seed,omitempty"`

	// Draws scripts the exact uniform draws the run's measurements
	// consume, making the single execution fully deterministic.
	Draws []float64 `yaml:"draws,omitempty"`

	// Assertions validate the execution outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a scenario result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Expect maps outcome bitstrings to expected frequencies
	// (distribution assertions).
	Expect map[string]float64 `yaml:"expect,omitempty"`

	// Tolerance is the allowed absolute frequency deviation
	// (distribution assertions).
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Key and Value pin a final classical memory entry (memory
	// assertions). Only scalar values round-trip through YAML.
	Key   string `yaml:"key,omitempty"`
	Value any    `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertDistribution = "distribution"
	AssertMemory       = "memory"
	AssertNorm         = "norm"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly. The circuits directory is resolved
// relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Circuits != "" && !filepath.IsAbs(scenario.Circuits) {
		scenario.Circuits = filepath.Join(filepath.Dir(path), scenario.Circuits)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Circuits == "" {
		return fmt.Errorf("circuits directory is required")
	}
	if s.Circuit == "" {
		return fmt.Errorf("circuit name is required")
	}
	if _, err := os.Stat(s.Circuits); os.IsNotExist(err) {
		return fmt.Errorf("circuits directory not found: %s", s.Circuits)
	}
	if s.Trials < 0 {
		return fmt.Errorf("trials must be non-negative")
	}
	if len(s.Draws) > 0 && s.Trials > 1 {
		return fmt.Errorf("draws scripts a single run; trials must be at most 1")
	}
	for i, d := range s.Draws {
		if d < 0 || d >= 1 {
			return fmt.Errorf("draws[%d]: %v outside [0, 1)", i, d)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertDistribution:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for distribution", index)
		}
		if a.Tolerance <= 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be positive for distribution", index)
		}
		for label, p := range a.Expect {
			if p < 0 || p > 1 {
				return fmt.Errorf("assertions[%d]: expect[%q] = %v outside [0, 1]", index, label, p)
			}
		}
	case AssertMemory:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for memory", index)
		}
	case AssertNorm:
		// no fields
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
