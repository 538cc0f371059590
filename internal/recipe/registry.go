package recipe

import "sync"

// Registry is a process-wide mapping from step-type name to step
// constructor. Typically populated once at start-up from a package-level
// init() in the steps package, then read-only for the remainder of the
// process's life.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Constructor)}
}

// Register adds a constructor for the given step type name. Returns
// ErrStepTypeAlreadyRegistered if name is already registered.
func (r *Registry) Register(name string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.steps[name]; exists {
		return ErrStepTypeAlreadyRegistered
	}
	r.steps[name] = ctor
	return nil
}

// Lookup returns the constructor registered for name, if any.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.steps[name]
	return ctor, ok
}

// Types returns the registered step-type names, in no particular order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the process-wide registry populated by the steps
// package's init(). The executor may be constructed with any Registry, but
// the CLI wires DefaultRegistry so that importing the steps package for its
// side effects is enough to make every built-in step type available.
var DefaultRegistry = NewRegistry()
