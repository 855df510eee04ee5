// Package engine decides whether a component's initialization actions must
// run for a given trigger event, executes them, and reports progress.
//
// Two pieces compose it. The decision table (decision.go) is a pure function
// of the trigger event, the current mode, the key's completion record, and
// the component's options. The execution coordinator (run.go) carries the
// decision out: it validates the preparation contract, brackets the work in
// start/end notifications, runs the primary and restricted actions strictly
// in sequence, and routes failures either to the component's onError handler
// or back to the caller.
//
// The engine never writes completion records itself; the notification sink
// owns those. Its idempotency comes from the decision table reading the
// record that the sink folded in earlier.
package engine

import (
	"log/slog"

	"github.com/roach88/preflight/internal/component"
	"github.com/roach88/preflight/internal/state"
)

// Engine coordinates component initialization runs.
//
// Thread-safety model:
//   - Run() is safe from any goroutine; runs for distinct keys may overlap
//   - the engine holds no per-key mutable state of its own; the shared
//     completion records live behind the Dispatcher/StateReader pair
//   - no two runs for the same key are expected concurrently; the decision
//     table's "already prepared" check is what prevents redundant
//     preparation within a pass, not a lock
type Engine struct {
	dispatcher state.Dispatcher
	states     component.StateReader
	tokens     TokenGenerator
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenGenerator replaces the invocation token generator.
// Tests use this with a fixed generator for deterministic logs.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = gen
	}
}

// WithLogger replaces the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine that emits notifications into dispatcher and reads
// the InitState slice through states. Components may override the state
// accessor per-config via Options.GetInitState.
func New(dispatcher state.Dispatcher, states component.StateReader, opts ...Option) *Engine {
	e := &Engine{
		dispatcher: dispatcher,
		states:     states,
		tokens:     UUIDv7Generator{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stateFor resolves the InitState slice for a component, honoring its
// per-config accessor override.
func (e *Engine) stateFor(cfg *component.Config) *state.InitState {
	reader := e.states
	if cfg.Options.GetInitState != nil {
		reader = cfg.Options.GetInitState
	}
	if reader == nil {
		return nil
	}
	return reader()
}
