package component

import (
	"fmt"
	"log/slog"
)

// Registry holds the wrapped component definitions for a single application
// instance.
//
// Registration happens once at startup, before any trigger event occurs, so
// no locking is needed for lookups afterwards.
type Registry struct {
	definitions map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]*Definition)}
}

// Register wraps cfg under name and adds it to the registry.
// Registering the same name twice is a wiring bug and panics.
func (r *Registry) Register(name string, cfg Config) *Definition {
	if _, exists := r.definitions[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	slog.Debug("registering component", "name", name, "id", cfg.ID)
	def := Wrap(name, cfg)
	r.definitions[name] = def
	return def
}

// Lookup returns the definition registered under name, or nil.
func (r *Registry) Lookup(name string) *Definition {
	return r.definitions[name]
}

// Names returns the registered component names in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	return names
}
