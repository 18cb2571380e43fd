package template

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formmap/pkg/helpers"
)

// Registry stores engine factories by dialect name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under dialect. Duplicate names return an error.
func (r *Registry) Register(dialect string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("template: factory is required")
	}
	name := NormalizeDialect(dialect)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("template: dialect %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(dialect string, factory Factory) {
	if err := r.Register(dialect, factory); err != nil {
		panic(err)
	}
}

// New builds an engine for dialect bound to funcs.
func (r *Registry) New(dialect string, funcs helpers.Map) (Engine, error) {
	name := NormalizeDialect(dialect)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template: dialect %q not registered", name)
	}
	engine, err := factory(funcs)
	if err != nil {
		return nil, fmt.Errorf("template: build %s engine: %w", name, err)
	}
	return engine, nil
}

// List returns a sorted list of dialect names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a dialect is registered.
func (r *Registry) Has(dialect string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[NormalizeDialect(dialect)]
	return ok
}
