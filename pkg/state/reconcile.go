package state

import (
	"github.com/vango-dev/routetree/pkg/cell"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// CreateEmptyState returns the state a router starts in: a root route for
// rootComponent over an empty URL, already advanced.
func CreateEmptyState(tree *urltree.Tree, rootComponent string) *RouterState {
	snapshot := CreateEmptySnapshot(tree, rootComponent)
	root := snapshot.Root
	route := NewActivatedRoute(nil, root.Params, root.Data, urltree.PrimaryOutlet, rootComponent)
	route.Snapshot.Set(root)
	fragment := ""
	return &RouterState{
		Root:        newNode(route, root, false, nil),
		QueryParams: cell.New(map[string]string{}).WithEquals(cell.ShallowEqual[string, string]),
		Fragment:    cell.New(&fragment).WithEquals(equalFragments),
		Snapshot:    snapshot,
	}
}

// CreateRouterState builds the live state for curr, reusing every live
// route of prev whose route config is matched again in the same outlet at
// the same place in the tree. Query param and fragment cells are carried
// over from prev.
//
// Reused routes are not modified: their new snapshots wait on the nodes of
// the returned state until Advance commits them.
func CreateRouterState(curr *RouterStateSnapshot, prev *RouterState) *RouterState {
	var prevRoot *Node
	query := cell.New(curr.QueryParams).WithEquals(cell.ShallowEqual[string, string])
	fragment := cell.New(curr.Fragment).WithEquals(equalFragments)
	if prev != nil {
		prevRoot = prev.Root
		query = prev.QueryParams
		fragment = prev.Fragment
	}
	return &RouterState{
		Root:        createNode(curr.Root, prevRoot),
		QueryParams: query,
		Fragment:    fragment,
		Snapshot:    curr,
	}
}

func createNode(curr *ActivatedRouteSnapshot, prev *Node) *Node {
	if prev != nil && reusable(prev, curr) {
		children := make([]*Node, len(curr.children))
		for i, c := range curr.children {
			children[i] = createNode(c, findReusable(prev.children, c))
		}
		return newNode(prev.Route, curr, true, children)
	}

	route := NewActivatedRoute(curr.URL, curr.Params, curr.Data, curr.Outlet, curr.Component)
	children := make([]*Node, len(curr.children))
	for i, c := range curr.children {
		children[i] = createNode(c, nil)
	}
	return newNode(route, curr, false, children)
}

func findReusable(prev []*Node, curr *ActivatedRouteSnapshot) *Node {
	for _, p := range prev {
		if reusable(p, curr) {
			return p
		}
	}
	return nil
}

func reusable(prev *Node, curr *ActivatedRouteSnapshot) bool {
	snap := prev.Route.Current()
	if snap == nil {
		snap = prev.Future
	}
	return prev.Route.Outlet == curr.Outlet && routes.Same(snap.RouteConfig, curr.RouteConfig)
}

// Advance commits every pending snapshot of s to its live route and pushes
// the state's query params and fragment. Cells notify only when their
// values change.
func Advance(s *RouterState) {
	s.Root.Walk(func(n *Node) { AdvanceRoute(n) })
	s.QueryParams.Set(s.Snapshot.QueryParams)
	s.Fragment.Set(s.Snapshot.Fragment)
}

// AdvanceRoute attaches n's pending snapshot to its live route. URL, params
// and data are pushed before the snapshot itself, each only if it changed.
func AdvanceRoute(n *Node) {
	route, next := n.Route, n.Future
	if route.Current() == next {
		return
	}
	route.URL.Set(next.URL)
	route.Params.Set(next.Params)
	route.Data.Set(next.Data)
	route.Snapshot.Set(next)
}
