package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario describes one playback run.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Project is the path to a project document, relative to the scenario
	// file.
	Project string `yaml:"project"`

	// Scene is the ID of the scene to run.
	Scene string `yaml:"scene"`

	// Ticks is the scripted input stream.
	Ticks []TickStep `yaml:"ticks"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// TickStep is one or more ticks with the same input.
type TickStep struct {
	// Repeat runs this input for N consecutive ticks. Zero means one.
	Repeat int `yaml:"repeat,omitempty"`

	Keys         []string `yaml:"keys,omitempty"`
	MousePressed bool     `yaml:"mouse_pressed,omitempty"`
	MouseX       int64    `yaml:"mouse_x,omitempty"`
	MouseY       int64    `yaml:"mouse_y,omitempty"`
}

// Assertion validates the scene after the last tick.
//
// Types:
//   - "position": instance is at (x, y)
//   - "prop_equals": instance property equals value
//   - "instance_count": number of live instances
//   - "destroyed": instance is no longer in the scene
//   - "error_count": total runtime errors across all ticks
type Assertion struct {
	Type     string `yaml:"type"`
	Instance string `yaml:"instance,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Value    any    `yaml:"value,omitempty"`
	X        int64  `yaml:"x,omitempty"`
	Y        int64  `yaml:"y,omitempty"`
	Count    int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPosition      = "position"
	AssertPropEquals    = "prop_equals"
	AssertInstanceCount = "instance_count"
	AssertDestroyed     = "destroyed"
	AssertErrorCount    = "error_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly, and the project path is resolved relative
// to the scenario file.
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

	if !filepath.IsAbs(scenario.Project) {
		scenario.Project = filepath.Join(filepath.Dir(path), scenario.Project)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Project == "" {
		return fmt.Errorf("project is required")
	}
	if _, err := os.Stat(s.Project); os.IsNotExist(err) {
		return fmt.Errorf("project file not found: %s", s.Project)
	}
	if s.Scene == "" {
		return fmt.Errorf("scene is required")
	}
	if len(s.Ticks) == 0 {
		return fmt.Errorf("ticks list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertPosition, AssertPropEquals, AssertDestroyed:
			if a.Instance == "" {
				return fmt.Errorf("assertions[%d]: instance is required for %s", i, a.Type)
			}
			if a.Type == AssertPropEquals && a.Name == "" {
				return fmt.Errorf("assertions[%d]: name is required for prop_equals", i)
			}
		case AssertInstanceCount, AssertErrorCount:
			// count may legitimately be zero
		default:
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
	}
	return nil
}
