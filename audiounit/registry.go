package audiounit

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps component descriptions to factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[ComponentDescription]Factory
}

// Default is the process-wide registry component packages register into.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[ComponentDescription]Factory)}
}

// Register adds a factory for desc.
func (r *Registry) Register(desc ComponentDescription, factory Factory) error {
	if desc.IsZero() {
		return errors.New("audiounit: empty component description")
	}

	if factory == nil {
		return errors.New("audiounit: nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[desc]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, desc)
	}

	r.factories[desc] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(desc ComponentDescription, factory Factory) {
	if err := r.Register(desc, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for desc, or nil.
func (r *Registry) Lookup(desc ComponentDescription) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.factories[desc]
}

// Instantiate creates a new unit for desc.
func (r *Registry) Instantiate(desc ComponentDescription) (Unit, error) {
	factory := r.Lookup(desc)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, desc)
	}

	unit, err := factory()
	if err != nil {
		return nil, fmt.Errorf("audiounit: instantiate %s: %w", desc, err)
	}
	if unit == nil {
		return nil, fmt.Errorf("audiounit: instantiate %s: factory returned nil unit", desc)
	}

	return unit, nil
}

// Components lists the registered descriptions in a stable order.
func (r *Registry) Components() []ComponentDescription {
	r.mu.RLock()
	out := make([]ComponentDescription, 0, len(r.factories))
	for desc := range r.factories {
		out = append(out, desc)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})

	return out
}
