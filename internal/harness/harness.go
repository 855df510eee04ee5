package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/preflight/internal/component"
	"github.com/roach88/preflight/internal/engine"
	"github.com/roach88/preflight/internal/key"
	"github.com/roach88/preflight/internal/manifest"
	"github.com/roach88/preflight/internal/state"
	"github.com/roach88/preflight/internal/testutil"
)

// TraceEvent is one notification enriched with the component it belongs to.
// The harness computed every prepare key itself, so it can map keys back to
// manifest labels.
type TraceEvent struct {
	Seq         int    `json:"seq"`
	Component   string `json:"component"`
	Key         string `json:"key"`
	PreparePass bool   `json:"prepare_pass"`
	Complete    bool   `json:"complete"`
}

// TriggerResult is the outcome of one trigger.
type TriggerResult struct {
	Component string `json:"component"`
	Caller    string `json:"caller"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Result is the complete outcome of a scenario run.
type Result struct {
	ScenarioName string          `json:"scenario_name"`
	Trace        []TraceEvent    `json:"trace"`
	Triggers     []TriggerResult `json:"triggers"`

	// Final is the final InitState snapshot.
	Final state.InitState `json:"-"`

	// keyToComponent maps prepare keys back to manifest labels for
	// assertions.
	keyToComponent map[string]string
	// componentKeys maps manifest labels to the keys they produced, in
	// first-use order.
	componentKeys map[string][]string
}

// RunOption configures a scenario run.
type RunOption func(*runConfig)

type runConfig struct {
	wrapSink func(state.Dispatcher) state.Dispatcher
}

// WithSink interposes a dispatcher between the engine and the recording
// sink. The wrapper must forward every notification to inner, or the trace
// and the folded state stop observing the run. The CLI uses this to tee
// notifications into the durable event log.
func WithSink(wrap func(inner state.Dispatcher) state.Dispatcher) RunOption {
	return func(cfg *runConfig) {
		cfg.wrapSink = wrap
	}
}

// Run executes a scenario and returns its result.
//
// Run fails only on harness-level problems (unreadable manifest, unknown
// component). Engine errors are captured per-trigger so scenarios can
// assert on them.
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	components, err := manifest.Load(scenario.ManifestPath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	registry := component.NewRegistry()
	for i := range components {
		c := &components[i]
		registry.Register(c.Name, c.Config())
	}

	mode, err := parseMode(scenario.Mode)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	store := state.NewStore(mode)
	recorder := testutil.NewRecorder(store)
	var sink state.Dispatcher = recorder
	if cfg.wrapSink != nil {
		sink = cfg.wrapSink(recorder)
	}
	eng := engine.New(sink, func() *state.InitState {
		st := store.State()
		return &st
	})

	result := &Result{
		ScenarioName:   scenario.Name,
		Trace:          []TraceEvent{},
		keyToComponent: make(map[string]string),
		componentKeys:  make(map[string][]string),
	}

	ctx := context.Background()
	for _, trigger := range scenario.Triggers {
		def := registry.Lookup(trigger.Component)
		if def == nil {
			return nil, fmt.Errorf("scenario %s: unknown component %q", scenario.Name, trigger.Component)
		}

		resolved := component.ResolveProps(def.Config, trigger.Props)
		prepareKey, err := key.ForComponent(def.Config.ID, def.Config.Props, resolved)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		if _, seen := result.keyToComponent[prepareKey]; !seen {
			result.keyToComponent[prepareKey] = trigger.Component
			result.componentKeys[trigger.Component] = append(result.componentKeys[trigger.Component], prepareKey)
		}

		tr := TriggerResult{Component: trigger.Component, Caller: trigger.Caller}
		value, runErr := eng.Run(ctx, def, trigger.Props, prepareKey, engine.Caller(trigger.Caller))
		if runErr != nil {
			tr.Error = runErr.Error()
			tr.ErrorCode = errorCode(runErr)
		} else {
			tr.Result = value
		}
		result.Triggers = append(result.Triggers, tr)
	}

	for i, n := range recorder.Notifications() {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:         i + 1,
			Component:   result.keyToComponent[n.Key],
			Key:         n.Key,
			PreparePass: n.PreparePass,
			Complete:    n.Complete,
		})
	}
	result.Final = store.State()

	return result, nil
}

func parseMode(s string) (state.Mode, error) {
	switch s {
	case "", "prepare":
		return state.ModePrepare, nil
	case "init_self":
		return state.ModeInitSelf, nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be prepare or init_self", s)
	}
}

func errorCode(err error) string {
	var ie *engine.InitError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	return ""
}
