// Package manifest compiles CUE component manifests into initialization
// configs.
//
// Manifests are the declarative surface for the CLI and scenario harness: a
// manifest names each component, its init props, its options, and scripted
// behaviors for its actions. Application code wires real actions in Go;
// manifests exist so scenarios and operators can exercise the engine
// without writing any.
//
// Manifest shape:
//
//	component: profile: {
//		id:         "Profile"
//		props:      ["userID"]
//		init_self:  "async"    // "never" | "async" | "blocking"
//		allow_lazy: true
//		primary:    {result: "profile-loaded"}
//		restricted: {result: "subscribed"}
//	}
package manifest

import (
	"github.com/roach88/preflight/internal/component"
)

// Component is one compiled manifest entry.
type Component struct {
	// Name is the manifest label the component was declared under.
	Name string

	// ID uniquely identifies the component type.
	ID string

	// Props names, in order, the inputs that participate in
	// initialization.
	Props []string

	// InitSelf is the self-initialization restriction level.
	InitSelf component.SelfInit

	// AllowLazy permits on-demand initialization.
	AllowLazy bool

	// Reinitialize tells the wrapping layer to re-trigger on input change.
	Reinitialize bool

	// Primary and Restricted script the component's actions. Nil means the
	// action is not supplied.
	Primary    *Behavior
	Restricted *Behavior
}

// Behavior scripts what a manifest-declared action does when invoked.
// Exactly one of the fields below drives the outcome.
type Behavior struct {
	// Result resolves the action with this value.
	Result any

	// Fail rejects the action with an error carrying this message.
	Fail string

	// DelayMS settles the action asynchronously after this many
	// milliseconds. Combines with Result or Fail.
	DelayMS int

	// Bare makes the action return its result directly instead of an
	// awaitable. Exists so scenarios can exercise the engine's boundary
	// check against misbehaving actions.
	Bare bool
}

// Config converts a compiled manifest entry into a component config with
// its behaviors realized as actions.
func (c *Component) Config() component.Config {
	cfg := component.Config{
		ID:    c.ID,
		Props: append([]string(nil), c.Props...),
		Options: component.Options{
			InitSelf:     c.InitSelf,
			AllowLazy:    c.AllowLazy,
			Reinitialize: c.Reinitialize,
		},
	}
	if c.Primary != nil {
		cfg.Primary = c.Primary.Action()
	}
	if c.Restricted != nil {
		cfg.Restricted = c.Restricted.Action()
	}
	return cfg
}
