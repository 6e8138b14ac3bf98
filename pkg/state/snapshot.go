package state

import (
	"strings"

	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// ActivatedRouteSnapshot is one matched route at one moment in time.
//
// Snapshots are built by the recognizer and only completed by the resolve
// stage, which fills in resolved data before the navigation commits.
type ActivatedRouteSnapshot struct {
	// URL holds the segments this route consumed.
	URL []urltree.Segment

	// Params are positional and matrix params merged with inherited ones.
	Params map[string]string

	// Data is static data merged with resolved data, inheritance applied.
	Data map[string]any

	Outlet    string
	Component string

	// RouteConfig is the matched route; nil for the root.
	RouteConfig *routes.Route

	staticData    map[string]any
	sourceGroup   *urltree.SegmentGroup
	lastPathIndex int
	resolve       *InheritedResolve

	parent   *ActivatedRouteSnapshot
	children []*ActivatedRouteSnapshot
}

// SnapshotFields are the values a snapshot is created from.
type SnapshotFields struct {
	URL       []urltree.Segment
	Params    map[string]string
	Data      map[string]any
	Outlet    string
	Component string
	Route     *routes.Route

	// Source is the URL tree group the route was matched from and
	// LastPathIndex the index of the last segment it consumed there.
	Source        *urltree.SegmentGroup
	LastPathIndex int

	Resolve *InheritedResolve
}

// NewSnapshot creates a snapshot without children.
func NewSnapshot(f SnapshotFields) *ActivatedRouteSnapshot {
	if f.Params == nil {
		f.Params = make(map[string]string)
	}
	if f.Data == nil {
		f.Data = make(map[string]any)
	}
	if f.Resolve == nil {
		f.Resolve = EmptyResolve()
	}
	if f.Outlet == "" {
		f.Outlet = urltree.PrimaryOutlet
	}
	return &ActivatedRouteSnapshot{
		URL:           f.URL,
		Params:        f.Params,
		Data:          f.Data,
		Outlet:        f.Outlet,
		Component:     f.Component,
		RouteConfig:   f.Route,
		staticData:    f.Data,
		sourceGroup:   f.Source,
		lastPathIndex: f.LastPathIndex,
		resolve:       f.Resolve,
	}
}

// SetChildren attaches children to s in canonical outlet order.
func (s *ActivatedRouteSnapshot) SetChildren(children []*ActivatedRouteSnapshot) *ActivatedRouteSnapshot {
	SortByOutlet(children)
	for _, c := range children {
		c.parent = s
	}
	s.children = children
	return s
}

// Parent returns the parent snapshot, or nil for the root.
func (s *ActivatedRouteSnapshot) Parent() *ActivatedRouteSnapshot { return s.parent }

// Children returns the child snapshots, primary outlet first.
func (s *ActivatedRouteSnapshot) Children() []*ActivatedRouteSnapshot { return s.children }

// FirstChild returns the first child, or nil.
func (s *ActivatedRouteSnapshot) FirstChild() *ActivatedRouteSnapshot {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[0]
}

// Child returns the child in the given outlet, or nil.
func (s *ActivatedRouteSnapshot) Child(outlet string) *ActivatedRouteSnapshot {
	for _, c := range s.children {
		if c.Outlet == outlet {
			return c
		}
	}
	return nil
}

// Root returns the root of the snapshot tree.
func (s *ActivatedRouteSnapshot) Root() *ActivatedRouteSnapshot {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// PathFromRoot returns the snapshots from the root down to s.
func (s *ActivatedRouteSnapshot) PathFromRoot() []*ActivatedRouteSnapshot {
	var path []*ActivatedRouteSnapshot
	for n := s; n != nil; n = n.parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// StaticData returns the static data with inheritance applied, before any
// resolved values are merged in.
func (s *ActivatedRouteSnapshot) StaticData() map[string]any { return s.staticData }

// SourceGroup returns the URL tree group the route was matched from.
func (s *ActivatedRouteSnapshot) SourceGroup() *urltree.SegmentGroup { return s.sourceGroup }

// LastPathIndex returns the index of the last segment the route consumed in
// its source group, or -1 when it consumed none.
func (s *ActivatedRouteSnapshot) LastPathIndex() int { return s.lastPathIndex }

// Position returns the position relative navigation commands start from.
func (s *ActivatedRouteSnapshot) Position() *urltree.Position {
	return &urltree.Position{Group: s.sourceGroup, LastPathIndex: s.lastPathIndex}
}

// Resolve returns the snapshot's link in the resolved data chain.
func (s *ActivatedRouteSnapshot) Resolve() *InheritedResolve { return s.resolve }

// RefreshData recomputes Data from static data and the resolved data chain.
func (s *ActivatedRouteSnapshot) RefreshData() {
	s.Data = merge(s.staticData, s.resolve.Flattened())
}

// Walk calls fn for s and every descendant, parents before children.
// Returning false from fn skips the node's children.
func (s *ActivatedRouteSnapshot) Walk(fn func(*ActivatedRouteSnapshot) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.children {
		c.Walk(fn)
	}
}

// String returns "Route(url:'a/b', path:'a/:id')".
func (s *ActivatedRouteSnapshot) String() string {
	var b strings.Builder
	b.WriteString("Route(url:'")
	for i, seg := range s.URL {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg.String())
	}
	b.WriteString("', path:'")
	if s.RouteConfig != nil {
		b.WriteString(s.RouteConfig.Path)
	}
	b.WriteString("')")
	return b.String()
}

// RouterStateSnapshot is the tree of activated route snapshots at one
// moment in time.
type RouterStateSnapshot struct {
	URL         string
	Root        *ActivatedRouteSnapshot
	QueryParams map[string]string
	Fragment    *string
}

// NewRouterStateSnapshot creates a state snapshot.
func NewRouterStateSnapshot(url string, root *ActivatedRouteSnapshot, query map[string]string, fragment *string) *RouterStateSnapshot {
	if query == nil {
		query = make(map[string]string)
	}
	return &RouterStateSnapshot{URL: url, Root: root, QueryParams: query, Fragment: fragment}
}

// CreateEmptySnapshot returns the snapshot of the empty state for tree.
func CreateEmptySnapshot(tree *urltree.Tree, rootComponent string) *RouterStateSnapshot {
	root := NewSnapshot(SnapshotFields{
		Component:     rootComponent,
		Source:        tree.Root,
		LastPathIndex: -1,
	})
	return NewRouterStateSnapshot("", root, nil, nil)
}

// String renders the tree as "Route(...) { Route(...), Route(...) }".
func (s *RouterStateSnapshot) String() string {
	var b strings.Builder
	writeSnapshotNode(&b, s.Root)
	return b.String()
}

func writeSnapshotNode(b *strings.Builder, n *ActivatedRouteSnapshot) {
	b.WriteString(n.String())
	if len(n.children) == 0 {
		return
	}
	b.WriteString(" { ")
	for i, c := range n.children {
		if i > 0 {
			b.WriteString(", ")
		}
		writeSnapshotNode(b, c)
	}
	b.WriteString(" } ")
}

// SortByOutlet sorts snapshots primary outlet first, then by outlet name.
func SortByOutlet(nodes []*ActivatedRouteSnapshot) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && urltree.CompareOutlets(nodes[j].Outlet, nodes[j-1].Outlet) < 0; j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}
