package harness

import (
	"fmt"
	"reflect"

	"github.com/roach88/preflight/internal/state"
)

// Check validates a scenario's expectations against its result. All
// failures are collected rather than stopping at the first, so one run
// reports everything that went wrong.
func Check(scenario *Scenario, result *Result) []error {
	var failures []error

	for i, trigger := range scenario.Triggers {
		if trigger.Expect == nil {
			continue
		}
		if err := checkTrigger(i, trigger, result.Triggers[i]); err != nil {
			failures = append(failures, err)
		}
	}

	for i, assertion := range scenario.Assertions {
		if err := checkAssertion(assertion, result); err != nil {
			failures = append(failures, fmt.Errorf("assertion %d (%s): %w", i, assertion.Type, err))
		}
	}

	return failures
}

func checkTrigger(i int, trigger Trigger, got TriggerResult) error {
	want := trigger.Expect

	if want.Error != "" {
		if got.ErrorCode != want.Error {
			return fmt.Errorf("trigger %d (%s %s): expected error %s, got %q (%s)",
				i, trigger.Component, trigger.Caller, want.Error, got.ErrorCode, got.Error)
		}
		return nil
	}

	if got.Error != "" {
		return fmt.Errorf("trigger %d (%s %s): unexpected error: %s",
			i, trigger.Component, trigger.Caller, got.Error)
	}

	if want.Result != nil && !reflect.DeepEqual(normalize(got.Result), normalize(want.Result)) {
		return fmt.Errorf("trigger %d (%s %s): expected result %v, got %v",
			i, trigger.Component, trigger.Caller, want.Result, got.Result)
	}
	return nil
}

func checkAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertTraceCount:
		count := 0
		for _, ev := range result.Trace {
			if ev.Component == a.Component {
				count++
			}
		}
		if count != a.Count {
			return fmt.Errorf("expected %d notifications for %q, got %d", a.Count, a.Component, count)
		}
		return nil

	case AssertTraceOrder:
		firstSeen := []string{}
		seen := map[string]bool{}
		for _, ev := range result.Trace {
			if ev.Component != "" && !seen[ev.Component] {
				seen[ev.Component] = true
				firstSeen = append(firstSeen, ev.Component)
			}
		}
		idx := 0
		for _, want := range a.Components {
			found := false
			for ; idx < len(firstSeen); idx++ {
				if firstSeen[idx] == want {
					found = true
					idx++
					break
				}
			}
			if !found {
				return fmt.Errorf("expected %v in trace order, got %v", a.Components, firstSeen)
			}
		}
		return nil

	case AssertFinalState:
		keys := result.componentKeys[a.Component]
		if len(keys) == 0 {
			if a.Completion == "absent" || a.Completion == "" {
				return nil
			}
			return fmt.Errorf("component %q never produced a key", a.Component)
		}
		for _, k := range keys {
			var got state.Completion
			switch a.Map {
			case "", "prepared":
				got = result.Final.PreparedFor(k)
			case "self_init":
				got = result.Final.SelfInitFor(k)
			default:
				return fmt.Errorf("unknown map %q: must be prepared or self_init", a.Map)
			}
			if got.String() != a.Completion {
				return fmt.Errorf("component %q key %s: expected %s, got %s",
					a.Component, k, a.Completion, got)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// normalize bridges YAML decoding differences so DeepEqual compares values,
// not representations: YAML ints arrive as int, engine results may carry
// int64, and multi-action results are []any.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}
