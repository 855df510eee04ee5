package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario, checks its assertions, and compares
// the result snapshot against a golden file in testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Snapshots are deterministic: prepare keys are content-addressed hashes,
// trace order is dispatch order, and encoding/json sorts map keys.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}

	for _, failure := range Check(scenario, result) {
		t.Errorf("scenario %s: %v", scenario.Name, failure)
	}

	snapshot, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Fatalf("scenario %s: marshal snapshot: %v", scenario.Name, err)
	}

	g := goldie.New(t)
	g.Assert(t, scenario.Name, append(snapshot, '\n'))
}

// RunAndCheck executes a scenario and returns assertion failures as a
// single error, for non-test callers (the CLI run command).
func RunAndCheck(scenario *Scenario, opts ...RunOption) (*Result, error) {
	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if failures := Check(scenario, result); len(failures) > 0 {
		msg := fmt.Sprintf("%d assertion failure(s):", len(failures))
		for _, f := range failures {
			msg += "\n  - " + f.Error()
		}
		return result, fmt.Errorf("%s", msg)
	}
	return result, nil
}
