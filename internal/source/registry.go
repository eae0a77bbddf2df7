package source

import "fmt"

// Registry maps source names to their adapters. It is populated once at
// process startup and read-only thereafter, so reads need no locking.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter. Registration happens during startup wiring,
// before any reads; duplicate names are a wiring bug.
func (r *Registry) Register(a Adapter) error {
	name := a.Name()
	if _, ok := r.adapters[name]; ok {
		return fmt.Errorf("register source %q: %w", name, ErrAlreadyRegistered)
	}
	r.adapters[name] = a
	r.order = append(r.order, name)
	return nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", name, ErrNotRegistered)
	}
	return a, nil
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []Adapter {
	all := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.adapters[name])
	}
	return all
}

// Names returns the names of all registered adapters in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	return len(r.order)
}
