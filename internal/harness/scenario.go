package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one declarative harness run.
type Scenario struct {
	// Name uniquely identifies this scenario; the golden file shares it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Database is activated before the first step. Empty means the
	// startup default.
	Database string `yaml:"database,omitempty"`

	// Steps are executed in order; each gets one trace entry.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation against the core. Op selects the operation; the
// remaining fields carry its arguments and are ignored by other ops.
type Step struct {
	Op string `yaml:"op"`

	// add-event / update-event
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Steps       []string `yaml:"steps,omitempty"`

	// update-event / delete-event / complete-step: current event title
	Target string `yaml:"target,omitempty"`

	// complete-step
	Index int `yaml:"index,omitempty"`

	// tag ops
	Name  string   `yaml:"name,omitempty"`
	Names []string `yaml:"names,omitempty"`
	Old   string   `yaml:"old,omitempty"`
	New   string   `yaml:"new,omitempty"`

	// create-db / switch
	DB      string `yaml:"database,omitempty"`
	Discard bool   `yaml:"discard,omitempty"`
}

// Assertion validates one property of the final state.
type Assertion struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count,omitempty"`
	Index int    `yaml:"index,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Want  string `yaml:"want,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return nil, fmt.Errorf("scenario %s: step %d missing op", path, i+1)
		}
	}
	return &s, nil
}
