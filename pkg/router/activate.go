package router

import (
	"maps"
	"sync"

	"github.com/vango-dev/routetree/pkg/state"
)

// Placement puts the components of activated routes on screen. path names
// the outlet a route is placed in by the outlets from the root, for
// example "primary/aux".
type Placement interface {
	Activate(path string, route *state.ActivatedRoute)
	Deactivate(path string, route *state.ActivatedRoute)

	// Component returns what is currently placed for route, or nil. It is
	// passed to deactivation guards.
	Component(route *state.ActivatedRoute) any
}

// OutletMap is a Placement that only records which route occupies each
// outlet. It is the default placement of a router.
type OutletMap struct {
	mu     sync.RWMutex
	placed map[string]*state.ActivatedRoute
}

// NewOutletMap creates an empty OutletMap.
func NewOutletMap() *OutletMap {
	return &OutletMap{placed: make(map[string]*state.ActivatedRoute)}
}

// Activate records route in path.
func (m *OutletMap) Activate(path string, route *state.ActivatedRoute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placed[path] = route
}

// Deactivate clears path if route still occupies it.
func (m *OutletMap) Deactivate(path string, route *state.ActivatedRoute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placed[path] == route {
		delete(m.placed, path)
	}
}

// Component returns the component name of route if it is placed.
func (m *OutletMap) Component(route *state.ActivatedRoute) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.placed {
		if r == route {
			return route.Component
		}
	}
	return nil
}

// Placed returns the component name in each occupied outlet path.
func (m *OutletMap) Placed() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.placed))
	for path, r := range m.placed {
		out[path] = r.Component
	}
	return out
}

// Routes returns the route in each occupied outlet path.
func (m *OutletMap) Routes() map[string]*state.ActivatedRoute {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.placed)
}

type placement struct {
	path  string
	route *state.ActivatedRoute
}

// activation diffs the next state against the current one the way the
// guard traversal does and collects the placement calls it implies.
type activation struct {
	deactivate []placement
	activate   []placement
}

func (a *activation) children(future, curr *state.Node, path string) {
	prev := make(map[string]*state.Node)
	var order []string
	if curr != nil {
		for _, c := range curr.Children() {
			prev[c.Route.Outlet] = c
			order = append(order, c.Route.Outlet)
		}
	}
	for _, c := range future.Children() {
		a.node(c, prev[c.Route.Outlet], join(path, c.Route.Outlet))
		delete(prev, c.Route.Outlet)
	}
	for _, outlet := range order {
		if c, ok := prev[outlet]; ok {
			a.removeSubtree(c, join(path, outlet))
		}
	}
}

func (a *activation) node(future, curr *state.Node, path string) {
	if curr != nil && future.Route == curr.Route {
		a.children(future, curr, path)
		return
	}
	if curr != nil {
		a.removeSubtree(curr, path)
	}
	a.activate = append(a.activate, placement{path: path, route: future.Route})
	a.children(future, nil, path)
}

func (a *activation) removeSubtree(n *state.Node, path string) {
	for _, c := range n.Children() {
		a.removeSubtree(c, join(path, c.Route.Outlet))
	}
	a.deactivate = append(a.deactivate, placement{path: path, route: n.Route})
}

func join(path, outlet string) string {
	if path == "" {
		return outlet
	}
	return path + "/" + outlet
}

// activate tears down the routes that left, pushes the new snapshots to
// every live route and places the routes that arrived, parents first.
func (r *Router) activate(future, current *state.RouterState) {
	var curr *state.Node
	if current != nil {
		curr = current.Root
	}
	var a activation
	a.children(future.Root, curr, "")

	for _, p := range a.deactivate {
		r.placement.Deactivate(p.path, p.route)
	}
	state.Advance(future)
	for _, p := range a.activate {
		r.placement.Activate(p.path, p.route)
	}
}
