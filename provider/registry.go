package provider

import (
	"sort"
	"sync"

	"github.com/kbukum/jobreturn/config"
	"github.com/kbukum/jobreturn/errors"
)

type registration[T Provider] struct {
	factory Factory[T]
	checks  []Capability
}

// Registry manages named provider factories.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]registration[T]
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]registration[T])}
}

// RegisterFactory registers a named factory. checks run, in order, before
// every construction.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T], checks ...Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = registration[T]{factory: factory, checks: checks}
}

// Available runs the capability checks of the named factory. It returns a
// NOT_FOUND AppError for an unknown name and an UNAVAILABLE AppError when a
// check fails.
func (r *Registry[T]) Available(name string) error {
	_, err := r.lookup(name)
	return err
}

// Create checks capabilities and instantiates the named provider.
func (r *Registry[T]) Create(name string, src config.Source) (T, error) {
	reg, err := r.lookup(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return reg.factory(src)
}

func (r *Registry[T]) lookup(name string) (registration[T], error) {
	r.mu.RLock()
	reg, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return reg, errors.NotFound("returner", name)
	}
	for _, check := range reg.checks {
		if err := check(); err != nil {
			return reg, errors.Unavailable(name, err.Error()).WithCause(err)
		}
	}
	return reg, nil
}

// List returns sorted names of all registered factories.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
