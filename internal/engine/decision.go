package engine

import (
	"github.com/roach88/preflight/internal/component"
	"github.com/roach88/preflight/internal/state"
)

// Caller names the trigger event that invoked the engine.
type Caller string

const (
	// CallerPreparePass is the preparation pass walking the component tree
	// ahead of first output.
	CallerPreparePass Caller = "PREPARE_PASS"

	// CallerWillMount is the strict enforcement point immediately before a
	// component instance mounts.
	CallerWillMount Caller = "WILL_MOUNT"

	// CallerDidMount fires after a component instance has mounted. Only
	// live instances reach this point, so restricted actions become
	// eligible here.
	CallerDidMount Caller = "DID_MOUNT"

	// CallerWillReceiveProps fires when a mounted instance is about to
	// receive changed input values.
	CallerWillReceiveProps Caller = "WILL_RECEIVE_PROPS"
)

// Decision is the ephemeral record the decision table produces for a single
// invocation: whether the "already prepared" contract must be validated, and
// which of the two actions run.
type Decision struct {
	ErrorIfUnprepared bool
	RunPrimary        bool
	RunRestricted     bool
}

// Decide computes the decision record for one trigger event. Pure: no side
// effects, total over the recognized callers.
//
// The rules, caller by caller:
//
//   - PREPARE_PASS only ever runs the primary action, and only if the key
//     is not already marked prepared. Preparation must be idempotent per
//     key, and this check is what makes it so.
//   - WILL_MOUNT is the strict enforcement point: during a preparation pass
//     with laziness disallowed, the component must already be prepared, and
//     an unprepared key is a contract violation by the caller. The primary
//     action runs here for blocking self-initialization, or lazily during a
//     preparation pass when laziness is allowed.
//   - DID_MOUNT runs the primary action for non-blocking self-
//     initialization (or lazily during a preparation pass) and is the first
//     point where the restricted action is eligible, gated on the
//     self-initialization level.
//   - WILL_RECEIVE_PROPS re-runs whichever actions are supplied; input
//     changes invalidate earlier results by definition.
//
// Any other caller is an invalid-usage error, fatal to the call.
func Decide(
	caller Caller,
	mode state.Mode,
	prepared state.Completion,
	opts component.Options,
	hasPrimary, hasRestricted bool,
) (Decision, error) {
	isPrepared := prepared != state.CompletionAbsent
	selfInitAllowed := opts.InitSelf != component.SelfInitNever

	switch caller {
	case CallerPreparePass:
		return Decision{
			RunPrimary: hasPrimary && !isPrepared,
		}, nil

	case CallerWillMount:
		return Decision{
			ErrorIfUnprepared: hasPrimary && mode == state.ModePrepare && !opts.AllowLazy,
			RunPrimary: hasPrimary &&
				((mode == state.ModeInitSelf && selfInitAllowed && !opts.AllowLazy) ||
					(mode == state.ModePrepare && !isPrepared && opts.AllowLazy)),
		}, nil

	case CallerDidMount:
		return Decision{
			RunPrimary: hasPrimary &&
				((mode == state.ModeInitSelf && selfInitAllowed && opts.AllowLazy) ||
					(mode == state.ModePrepare && !isPrepared && opts.AllowLazy)),
			RunRestricted: hasRestricted && selfInitAllowed,
		}, nil

	case CallerWillReceiveProps:
		return Decision{
			RunPrimary:    hasPrimary,
			RunRestricted: hasRestricted,
		}, nil

	default:
		return Decision{}, NewInvalidCallerError(caller)
	}
}
