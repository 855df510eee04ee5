// Package harness executes declarative initialization scenarios for
// conformance testing.
//
// A scenario names a CUE component manifest, a rendering mode, and an
// ordered list of trigger events. The harness runs the engine over the
// triggers with a recording sink, then checks assertions against the
// notification trace and the final completion state. Golden files pin the
// exact trace.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Manifest is the path to the CUE component manifest, relative to the
	// scenario file location.
	Manifest string `yaml:"manifest"`

	// Mode is the rendering mode for the run: "prepare" or "init_self".
	// Defaults to "prepare".
	Mode string `yaml:"mode,omitempty"`

	// Triggers is the ordered list of trigger events to run.
	Triggers []Trigger `yaml:"triggers"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the directory the scenario file was loaded from, for
	// resolving the manifest path.
	dir string
}

// Trigger is one engine invocation.
type Trigger struct {
	// Component is the manifest label of the component to trigger.
	Component string `yaml:"component"`

	// Caller is the trigger event name: PREPARE_PASS, WILL_MOUNT,
	// DID_MOUNT, or WILL_RECEIVE_PROPS. Unrecognized names are passed
	// through so scenarios can exercise the invalid-caller path.
	Caller string `yaml:"caller"`

	// Props holds the input values supplied at this trigger.
	Props map[string]any `yaml:"props,omitempty"`

	// Expect optionally validates this trigger's outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a trigger.
type Expect struct {
	// Error is the expected engine error code (e.g. PREPARATION_MISSING).
	// Empty means the trigger must succeed.
	Error string `yaml:"error,omitempty"`

	// Result is the expected combined result. Compared by deep equality;
	// nil with Error empty means the result is not checked.
	Result any `yaml:"result,omitempty"`
}

// Assertion validates the trace or final state after all triggers ran.
type Assertion struct {
	// Type is one of trace_count, trace_order, final_state.
	Type string `yaml:"type"`

	// Component is the manifest label the assertion applies to.
	Component string `yaml:"component,omitempty"`

	// Count is the expected number of notifications for the component's
	// key (trace_count).
	Count int `yaml:"count,omitempty"`

	// Components is the expected first-notification order (trace_order).
	Components []string `yaml:"components,omitempty"`

	// Map selects which completion map final_state inspects: "prepared"
	// or "self_init".
	Map string `yaml:"map,omitempty"`

	// Completion is the expected tri-state value: absent, started, done.
	Completion string `yaml:"completion,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertFinalState = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
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
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Manifest == "" {
		return nil, fmt.Errorf("scenario %s: manifest is required", path)
	}
	s.dir = filepath.Dir(path)
	return &s, nil
}

// ManifestPath resolves the manifest path relative to the scenario file.
func (s *Scenario) ManifestPath() string {
	if filepath.IsAbs(s.Manifest) || s.dir == "" {
		return s.Manifest
	}
	return filepath.Join(s.dir, s.Manifest)
}
