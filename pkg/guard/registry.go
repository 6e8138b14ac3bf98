package guard

import (
	"maps"
	"slices"
	"sync"

	"github.com/vango-dev/routetree/internal/errors"
)

// Registry maps the capability ids used in route configs to guards and
// resolvers. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	activate   map[string]CanActivate
	deactivate map[string]CanDeactivate
	resolvers  map[string]Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		activate:   make(map[string]CanActivate),
		deactivate: make(map[string]CanDeactivate),
		resolvers:  make(map[string]Resolver),
	}
}

// AddCanActivate registers an activation guard under id.
func (r *Registry) AddCanActivate(id string, g CanActivate) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activate[id] = g
	return r
}

// AddCanDeactivate registers a deactivation guard under id.
func (r *Registry) AddCanDeactivate(id string, g CanDeactivate) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deactivate[id] = g
	return r
}

// AddResolver registers a resolver under id.
func (r *Registry) AddResolver(id string, res Resolver) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[id] = res
	return r
}

// CanActivate returns the activation guard registered under id.
func (r *Registry) CanActivate(id string) (CanActivate, error) {
	if r != nil {
		r.mu.RLock()
		g, ok := r.activate[id]
		r.mu.RUnlock()
		if ok {
			return g, nil
		}
	}
	return nil, unknown(id, "canActivate")
}

// CanDeactivate returns the deactivation guard registered under id.
func (r *Registry) CanDeactivate(id string) (CanDeactivate, error) {
	if r != nil {
		r.mu.RLock()
		g, ok := r.deactivate[id]
		r.mu.RUnlock()
		if ok {
			return g, nil
		}
	}
	return nil, unknown(id, "canDeactivate")
}

// Resolver returns the resolver registered under id.
func (r *Registry) Resolver(id string) (Resolver, error) {
	if r != nil {
		r.mu.RLock()
		res, ok := r.resolvers[id]
		r.mu.RUnlock()
		if ok {
			return res, nil
		}
	}
	return nil, unknown(id, "resolve")
}

// IDs returns the registered ids of every kind, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for id := range r.activate {
		seen[id] = struct{}{}
	}
	for id := range r.deactivate {
		seen[id] = struct{}{}
	}
	for id := range r.resolvers {
		seen[id] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

func unknown(id, kind string) *errors.RouteError {
	return errors.New("R104").
		WithSubject(id).
		WithDetailf("no %s capability registered", kind).
		WithSuggestion("Register it with the router's guard registry before navigating")
}
