package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/preflight/internal/state"
)

func traceResult() *Result {
	return &Result{
		Trace: []TraceEvent{
			{Seq: 1, Component: "profile", Key: "k1"},
			{Seq: 2, Component: "feed", Key: "k2"},
			{Seq: 3, Component: "profile", Key: "k1", Complete: true},
			{Seq: 4, Component: "feed", Key: "k2", Complete: true},
		},
		Final: state.InitState{
			Mode:     state.ModePrepare,
			Prepared: map[string]state.Completion{"k1": state.CompletionDone},
			SelfInit: map[string]state.Completion{"k2": state.CompletionStarted},
		},
		componentKeys: map[string][]string{
			"profile": {"k1"},
			"feed":    {"k2"},
		},
	}
}

func TestCheckAssertion_TraceCount(t *testing.T) {
	result := traceResult()

	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertTraceCount, Component: "profile", Count: 2,
	}, result))
	assert.Error(t, checkAssertion(Assertion{
		Type: AssertTraceCount, Component: "profile", Count: 3,
	}, result))
	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertTraceCount, Component: "absent", Count: 0,
	}, result))
}

func TestCheckAssertion_TraceOrder(t *testing.T) {
	result := traceResult()

	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertTraceOrder, Components: []string{"profile", "feed"},
	}, result))
	assert.Error(t, checkAssertion(Assertion{
		Type: AssertTraceOrder, Components: []string{"feed", "profile"},
	}, result))
}

func TestCheckAssertion_FinalState(t *testing.T) {
	result := traceResult()

	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "profile", Map: "prepared", Completion: "done",
	}, result))
	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "feed", Map: "self_init", Completion: "started",
	}, result))
	assert.Error(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "feed", Map: "prepared", Completion: "done",
	}, result))

	// A component that never produced a key can only be asserted absent.
	assert.NoError(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "ghost", Completion: "absent",
	}, result))
	assert.Error(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "ghost", Completion: "done",
	}, result))
}

func TestCheckAssertion_UnknownType(t *testing.T) {
	assert.Error(t, checkAssertion(Assertion{Type: "trace_sum"}, traceResult()))
}

func TestCheckAssertion_UnknownMap(t *testing.T) {
	assert.Error(t, checkAssertion(Assertion{
		Type: AssertFinalState, Component: "profile", Map: "pending", Completion: "done",
	}, traceResult()))
}

func TestCheckTrigger_ExpectedError(t *testing.T) {
	trigger := Trigger{Component: "profile", Caller: "WILL_MOUNT", Expect: &Expect{Error: "PREPARATION_MISSING"}}

	assert.NoError(t, checkTrigger(0, trigger, TriggerResult{
		ErrorCode: "PREPARATION_MISSING", Error: "boom",
	}))
	assert.Error(t, checkTrigger(0, trigger, TriggerResult{Result: "ok"}))
}

func TestCheckTrigger_UnexpectedError(t *testing.T) {
	trigger := Trigger{Component: "profile", Caller: "PREPARE_PASS", Expect: &Expect{Result: "ok"}}

	err := checkTrigger(0, trigger, TriggerResult{Error: "boom", ErrorCode: "INVALID_CALLER"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected error")
}

func TestCheckTrigger_ResultMismatch(t *testing.T) {
	trigger := Trigger{Component: "profile", Caller: "PREPARE_PASS", Expect: &Expect{Result: "want"}}

	assert.Error(t, checkTrigger(0, trigger, TriggerResult{Result: "got"}))
	assert.NoError(t, checkTrigger(0, trigger, TriggerResult{Result: "want"}))
}

func TestNormalize_BridgesYAMLIntegers(t *testing.T) {
	// YAML decodes 7 as int, engine results may carry int64.
	assert.Equal(t, normalize(int64(7)), normalize(7))
	assert.Equal(t,
		normalize([]any{int64(1), map[string]any{"n": int64(2)}}),
		normalize([]any{1, map[string]any{"n": 2}}))
}
