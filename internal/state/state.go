// Package state defines the initialization state slice shared between the
// preflight engine and the surrounding application: the current rendering
// mode, the per-key completion records, and the start/end notifications the
// engine emits while initializing a component.
//
// The engine never writes completion records directly. It dispatches
// notifications into a Dispatcher, and the sink folds them into the
// completion maps. This keeps the state representation pluggable: the
// in-memory Store below is the reference sink, eventlog.Log wraps it with a
// durable trail, and integrators may supply their own.
package state

// Mode identifies which rendering pass the application is currently in.
//
// The external pass coordinator sets the mode exactly once per pass; the
// engine only ever reads it.
type Mode string

const (
	// ModePrepare is the preparation pass, performed ahead of first output
	// to produce a fully-populated render.
	ModePrepare Mode = "PREPARE"

	// ModeInitSelf is the self-initialization pass, performed by live,
	// mounted component instances.
	ModeInitSelf Mode = "INIT_SELF"
)

// Completion is the tri-state completion record for a prepare key.
//
// The zero value is CompletionAbsent, so a map lookup for a key that was
// never attempted yields the correct state without an existence check.
// Modeling the tri-state explicitly avoids the absent-vs-started ambiguity
// that a map[string]bool invites.
type Completion int

const (
	// CompletionAbsent means initialization was never attempted for the key.
	CompletionAbsent Completion = iota

	// CompletionStarted means initialization was attempted but has not
	// completed yet.
	CompletionStarted

	// CompletionDone means initialization completed.
	CompletionDone
)

// String returns the lowercase name of the completion state.
func (c Completion) String() string {
	switch c {
	case CompletionStarted:
		return "started"
	case CompletionDone:
		return "done"
	default:
		return "absent"
	}
}

// InitState is the engine's state slice.
//
// Prepared records completion of preparation-pass initialization per prepare
// key; SelfInit records completion of self-initialization attempts. Both
// maps share the same tri-state semantics.
type InitState struct {
	Mode     Mode
	Prepared map[string]Completion
	SelfInit map[string]Completion
}

// PreparedFor returns the completion record for key in the Prepared map.
// A nil map or missing key yields CompletionAbsent.
func (s InitState) PreparedFor(key string) Completion {
	return s.Prepared[key]
}

// SelfInitFor returns the completion record for key in the SelfInit map.
func (s InitState) SelfInitFor(key string) Completion {
	return s.SelfInit[key]
}

// Notification is the exact shape the engine dispatches at the start and end
// of a validated initialization run.
//
// PreparePass selects which completion map the sink folds the notification
// into. Complete=false marks the start of a run (Absent → Started);
// Complete=true marks the end (→ Done).
type Notification struct {
	Key         string `json:"key"`
	PreparePass bool   `json:"prepare_pass"`
	Complete    bool   `json:"complete"`
}

// Dispatcher receives notifications from the engine.
//
// Implementations must be safe for concurrent use; independent keys may be
// initializing at the same time.
type Dispatcher interface {
	Dispatch(n Notification)
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(n Notification)

// Dispatch calls f(n).
func (f DispatchFunc) Dispatch(n Notification) { f(n) }
