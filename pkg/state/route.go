package state

import (
	"github.com/vango-dev/routetree/pkg/cell"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// ActivatedRoute is the live, observable view of a route that stays
// attached across navigations as long as its route config stays matched
// in the same outlet.
type ActivatedRoute struct {
	URL      *cell.Cell[[]urltree.Segment]
	Params   *cell.Cell[map[string]string]
	Data     *cell.Cell[map[string]any]
	Snapshot *cell.Cell[*ActivatedRouteSnapshot]

	Outlet    string
	Component string
}

// NewActivatedRoute creates a live route whose cells hold the given values.
// The snapshot cell starts empty until the route is advanced.
func NewActivatedRoute(url []urltree.Segment, params map[string]string, data map[string]any, outlet, component string) *ActivatedRoute {
	return &ActivatedRoute{
		URL:       cell.New(url).WithEquals(equalSegments),
		Params:    cell.New(params).WithEquals(cell.ShallowEqual[string, string]),
		Data:      cell.New(data).WithEquals(cell.ShallowEqual[string, any]),
		Snapshot:  cell.New[*ActivatedRouteSnapshot](nil).WithEquals(samePointer[ActivatedRouteSnapshot]),
		Outlet:    outlet,
		Component: component,
	}
}

// Current returns the currently attached snapshot, or nil before the first
// advance.
func (r *ActivatedRoute) Current() *ActivatedRouteSnapshot {
	return r.Snapshot.Get()
}

// String describes the attached snapshot.
func (r *ActivatedRoute) String() string {
	if s := r.Current(); s != nil {
		return s.String()
	}
	return "Future(" + r.Outlet + ")"
}

func equalSegments(a, b []urltree.Segment) bool {
	return cell.ShallowEqualSlices(a, b, func(x, y urltree.Segment) bool {
		return x.Equal(y)
	})
}

func samePointer[T any](a, b *T) bool { return a == b }

// Node places an ActivatedRoute in one router state tree. The same live
// route may appear in the current and the next state; each state has its
// own nodes.
type Node struct {
	Route *ActivatedRoute

	// Future is the snapshot the route will show once the state is
	// committed.
	Future *ActivatedRouteSnapshot

	// Reused is set when Route was carried over from the previous state.
	Reused bool

	parent   *Node
	children []*Node
}

func newNode(route *ActivatedRoute, future *ActivatedRouteSnapshot, reused bool, children []*Node) *Node {
	n := &Node{Route: route, Future: future, Reused: reused, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in canonical outlet order.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Child returns the child in the given outlet, or nil.
func (n *Node) Child(outlet string) *Node {
	for _, c := range n.children {
		if c.Route.Outlet == outlet {
			return c
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// RouterState is the live tree of activated routes.
type RouterState struct {
	Root        *Node
	QueryParams *cell.Cell[map[string]string]
	Fragment    *cell.Cell[*string]

	// Snapshot is the state snapshot this state was created from.
	Snapshot *RouterStateSnapshot
}

// Routes returns the live routes in tree order.
func (s *RouterState) Routes() []*ActivatedRoute {
	var out []*ActivatedRoute
	s.Root.Walk(func(n *Node) { out = append(out, n.Route) })
	return out
}

// Find returns the node reached by following the given outlets from the
// root, or nil.
func (s *RouterState) Find(outlets ...string) *Node {
	n := s.Root
	for _, o := range outlets {
		if n = n.Child(o); n == nil {
			return nil
		}
	}
	return n
}

func equalFragments(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
