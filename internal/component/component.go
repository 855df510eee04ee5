// Package component defines initialization configs for wrapped components
// and the registry that holds them.
//
// A Config is attached to a component definition exactly once, when the
// component is wrapped, and is never mutated afterwards. The engine reads
// it at every trigger event to decide whether and how to initialize.
package component

import (
	"context"

	"github.com/roach88/preflight/internal/state"
)

// SelfInit is the restriction level for self-initialization.
type SelfInit int

const (
	// SelfInitNever disables self-initialization entirely; only the
	// preparation pass may run the component's actions.
	SelfInitNever SelfInit = iota

	// SelfInitAsync permits self-initialization after the component has
	// mounted, off the critical rendering path.
	SelfInitAsync

	// SelfInitBlocking permits self-initialization before the component
	// mounts, blocking its first render on the result.
	SelfInitBlocking
)

// String returns the lowercase name of the restriction level.
func (s SelfInit) String() string {
	switch s {
	case SelfInitAsync:
		return "async"
	case SelfInitBlocking:
		return "blocking"
	default:
		return "never"
	}
}

// StateReader returns the engine's InitState slice from wherever the
// application keeps it. A nil result means the state container was not
// wired up.
type StateReader func() *state.InitState

// ActionCall carries everything an action receives when invoked: the
// resolved input values (the subset of the component's props named in
// Config.Props), a dispatch capability, and a state-read capability.
type ActionCall struct {
	Props    map[string]any
	Dispatch state.Dispatcher
	State    StateReader
}

// Action is an initialization action.
//
// Actions are invoked synchronously and must return a future.Awaitable;
// future.Resolve and future.Go make that a one-liner. The return type is
// deliberately any so untyped integration sites can be wrapped, with the
// engine boundary-checking the returned value at runtime.
type Action func(ctx context.Context, call ActionCall) any

// Options bundles the per-component knobs consumed by the engine.
type Options struct {
	// OnError, when set, receives action failures instead of the caller.
	// Programmer errors (an action returning a non-awaitable) are never
	// routed here.
	OnError func(error)

	// GetInitState overrides the engine's default state accessor for this
	// component, selecting the InitState slice from a larger state tree.
	GetInitState StateReader

	// InitSelf is the self-initialization restriction level.
	InitSelf SelfInit

	// AllowLazy permits skipping the "must already be prepared" validation
	// and initializing on demand instead.
	AllowLazy bool

	// Reinitialize tells the wrapping layer whether input changes should
	// re-trigger initialization. The engine itself never reads it.
	Reinitialize bool
}

// Config is the initialization config attached to a wrapped component.
// Immutable after creation.
type Config struct {
	// ID uniquely identifies the component type.
	ID string

	// Props names, in order, the inputs whose values participate in
	// initialization and in prepare-key construction.
	Props []string

	// Primary is the action eligible to run during preparation or
	// self-initialization. Optional.
	Primary Action

	// Restricted is the action eligible only in self-initialization
	// contexts. Optional.
	Restricted Action

	Options Options
}

// Definition is a wrapped component: a name plus its attached Config.
//
// A Definition with a nil Config models a component that was never wrapped;
// the engine rejects it with a missing-config error.
type Definition struct {
	Name   string
	Config *Config
}

// Wrap attaches cfg to a new component definition.
func Wrap(name string, cfg Config) *Definition {
	c := cfg
	return &Definition{Name: name, Config: &c}
}

// ResolveProps picks the values named by cfg.Props out of supplied, in
// config order. Inputs the caller did not supply are omitted, matching the
// behavior of reading an absent field from an input object.
func ResolveProps(cfg *Config, supplied map[string]any) map[string]any {
	resolved := make(map[string]any, len(cfg.Props))
	for _, name := range cfg.Props {
		if v, ok := supplied[name]; ok {
			resolved[name] = v
		}
	}
	return resolved
}
