package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/preflight/internal/component"
	"github.com/roach88/preflight/internal/future"
	"github.com/roach88/preflight/internal/state"
)

// Run is the single entry point for all four trigger events.
//
// It resolves the component's input values, computes the decision record,
// validates the preparation contract, and executes whatever the decision
// schedules. The returned value follows the combination rules: both actions
// ran ⇒ a two-element []any of their results in order, one ran ⇒ that
// result, neither ⇒ nil.
//
// Notification contract: a run that fails validation or schedules nothing
// emits no notifications and mutates no state. A run that schedules work
// emits exactly one start and exactly one end notification, the end on
// every exit path (success, shielded failure, propagated failure).
//
// prepareKey is treated as opaque; equal inputs must always yield equal
// keys, or idempotent preparation breaks.
func (e *Engine) Run(
	ctx context.Context,
	def *component.Definition,
	props map[string]any,
	prepareKey string,
	caller Caller,
) (any, error) {
	if def == nil || def.Config == nil {
		name := ""
		if def != nil {
			name = def.Name
		}
		return nil, NewMissingInitConfigError(name)
	}
	cfg := def.Config

	st := e.stateFor(cfg)
	if st == nil {
		return nil, NewMissingInitStateError(cfg.ID)
	}

	resolved := component.ResolveProps(cfg, props)
	prepared := st.PreparedFor(prepareKey)

	decision, err := Decide(caller, st.Mode, prepared, cfg.Options,
		cfg.Primary != nil, cfg.Restricted != nil)
	if err != nil {
		return nil, err
	}

	// Strict enforcement: the caller promised this key was prepared ahead
	// of time. Done passes; anything else is a contract violation carrying
	// the concrete inputs so the operator can find the missing call.
	if decision.ErrorIfUnprepared && prepared != state.CompletionDone {
		if prepared == state.CompletionAbsent {
			return nil, NewPreparationMissingError(cfg.ID, prepareKey, serializeProps(resolved))
		}
		return nil, NewPreparationPendingError(cfg.ID, prepareKey, serializeProps(resolved))
	}

	// Nothing to do: resolve immediately, emit nothing.
	if !decision.RunPrimary && !decision.RunRestricted {
		return nil, nil
	}

	token := e.tokens.Generate()
	isPreparePass := caller == CallerPreparePass

	e.logger.Debug("initialization starting",
		"token", token,
		"component", cfg.ID,
		"key", prepareKey,
		"caller", string(caller),
		"primary", decision.RunPrimary,
		"restricted", decision.RunRestricted,
	)

	e.dispatcher.Dispatch(state.Notification{
		Key:         prepareKey,
		PreparePass: isPreparePass,
		Complete:    false,
	})

	// The end notification fires exactly once per validated run, on every
	// exit path past this point.
	defer e.dispatcher.Dispatch(state.Notification{
		Key:         prepareKey,
		PreparePass: isPreparePass,
		Complete:    true,
	})

	result, err := e.execute(ctx, cfg, decision, resolved)
	if err != nil {
		// Shield action failures behind the component's handler, except
		// for non-awaitable returns: those are programmer errors in the
		// action and must never be silently swallowed.
		if cfg.Options.OnError != nil && !IsInvalidActionReturn(err) {
			e.logger.Debug("initialization failure shielded",
				"token", token, "component", cfg.ID, "error", err)
			cfg.Options.OnError(err)
			return nil, nil
		}
		e.logger.Debug("initialization failed",
			"token", token, "component", cfg.ID, "error", err)
		return nil, err
	}

	e.logger.Debug("initialization complete", "token", token, "component", cfg.ID)
	return result, nil
}

// execute runs the scheduled actions sequentially: the restricted action
// never begins until the primary action's result has resolved. When the
// primary is skipped, an immediately-resolved nil placeholder establishes
// the same ordering, and the restricted action sees nil as its predecessor
// value.
func (e *Engine) execute(
	ctx context.Context,
	cfg *component.Config,
	decision Decision,
	resolved map[string]any,
) (any, error) {
	call := component.ActionCall{
		Props:    resolved,
		Dispatch: e.dispatcher,
		State:    e.statesReader(cfg),
	}

	primary := future.Resolve(nil)
	if decision.RunPrimary {
		var err error
		primary, err = e.invoke(ctx, cfg, cfg.Primary, call)
		if err != nil {
			return nil, err
		}
	}

	primaryResult, err := primary.Await(ctx)
	if err != nil {
		return nil, err
	}

	if !decision.RunRestricted {
		if decision.RunPrimary {
			return primaryResult, nil
		}
		return nil, nil
	}

	restricted, err := e.invoke(ctx, cfg, cfg.Restricted, call)
	if err != nil {
		return nil, err
	}
	restrictedResult, err := restricted.Await(ctx)
	if err != nil {
		return nil, err
	}

	if decision.RunPrimary {
		return []any{primaryResult, restrictedResult}, nil
	}
	return restrictedResult, nil
}

// invoke calls an action and boundary-checks that it returned an awaitable.
func (e *Engine) invoke(
	ctx context.Context,
	cfg *component.Config,
	action component.Action,
	call component.ActionCall,
) (future.Awaitable, error) {
	ret := action(ctx, call)
	aw, ok := ret.(future.Awaitable)
	if !ok {
		return nil, NewInvalidActionReturnError(cfg.ID, fmt.Sprintf("%T", ret))
	}
	return aw, nil
}

// statesReader returns the accessor actions receive as their state-read
// capability, honoring the per-config override.
func (e *Engine) statesReader(cfg *component.Config) component.StateReader {
	if cfg.Options.GetInitState != nil {
		return cfg.Options.GetInitState
	}
	return e.states
}

// serializeProps renders input values for diagnostics. Diagnostics must not
// fail, so unserializable values fall back to Go syntax.
func serializeProps(props map[string]any) string {
	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Sprintf("%#v", props)
	}
	return string(b)
}
