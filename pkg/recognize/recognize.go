package recognize

import (
	"context"
	"maps"
	"strings"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// Recognize matches a redirect-resolved tree against config and builds the
// state snapshot for it. url is the serialized tree; when empty it is
// computed. Redirect routes never match.
func Recognize(ctx context.Context, cache *routes.LoadCache, tree *urltree.Tree, config routes.Routes, url, rootComponent string) (*state.RouterStateSnapshot, error) {
	if url == "" {
		url = urltree.Serialize(tree)
	}
	root := state.NewSnapshot(state.SnapshotFields{
		Component:     rootComponent,
		Source:        tree.Root,
		LastPathIndex: -1,
	})

	r := &recognizer{
		ctx:     ctx,
		cache:   cache,
		sources: make(map[*urltree.SegmentGroup]source),
	}
	top := inherited{
		params:  map[string]string{},
		data:    map[string]any{},
		resolve: root.Resolve(),
	}
	res, err := r.processGroup(config, tree.Root, top, urltree.PrimaryOutlet)
	if err != nil {
		return nil, err
	}
	if !res.matched {
		return nil, errors.New("R100").WithSubject(res.at.String())
	}
	if err := checkOutletNames(res.nodes); err != nil {
		return nil, err
	}
	root.SetChildren(res.nodes)
	return state.NewRouterStateSnapshot(url, root, tree.QueryParams, tree.Fragment), nil
}

// source links a group synthesized for empty paths to the group it was
// carved from. shift is the index in that group where its paths start.
type source struct {
	group *urltree.SegmentGroup
	shift int
}

type recognizer struct {
	ctx     context.Context
	cache   *routes.LoadCache
	sources map[*urltree.SegmentGroup]source
}

// inherited is what a node passes down to the routes matched below it.
type inherited struct {
	snapshot *state.ActivatedRouteSnapshot
	params   map[string]string
	data     map[string]any
	resolve  *state.InheritedResolve
}

type result struct {
	nodes   []*state.ActivatedRouteSnapshot
	matched bool
	at      *urltree.SegmentGroup
}

func noMatch(at *urltree.SegmentGroup) result {
	return result{at: at}
}

func matched(nodes ...*state.ActivatedRouteSnapshot) result {
	return result{nodes: nodes, matched: true}
}

// sourceOf returns the group g was carved from and the index shift of g's
// paths in it.
func (r *recognizer) sourceOf(g *urltree.SegmentGroup) (*urltree.SegmentGroup, int) {
	shift := 0
	for {
		s, ok := r.sources[g]
		if !ok {
			return g, shift
		}
		shift += s.shift
		g = s.group
	}
}

func (r *recognizer) processGroup(config routes.Routes, g *urltree.SegmentGroup, inh inherited, outlet string) (result, error) {
	if err := r.ctx.Err(); err != nil {
		return result{}, err
	}
	if len(g.Segments) == 0 && g.HasChildren() {
		return r.processChildren(config, g, inh)
	}
	return r.processPaths(config, g, 0, g.Segments, inh, outlet)
}

// processChildren matches every child of g. Children are processed in
// outlet order and the resulting siblings must claim distinct outlets.
func (r *recognizer) processChildren(config routes.Routes, g *urltree.SegmentGroup, inh inherited) (result, error) {
	var nodes []*state.ActivatedRouteSnapshot
	for _, name := range g.Outlets() {
		res, err := r.processGroup(config, g.Children[name], inh, name)
		if err != nil {
			return result{}, err
		}
		if !res.matched {
			return res, nil
		}
		nodes = append(nodes, res.nodes...)
	}
	if err := checkOutletNames(nodes); err != nil {
		return result{}, err
	}
	state.SortByOutlet(nodes)
	return matched(nodes...), nil
}

func (r *recognizer) processPaths(config routes.Routes, g *urltree.SegmentGroup, pathIndex int, paths []urltree.Segment, inh inherited, outlet string) (result, error) {
	for _, route := range config {
		res, err := r.processAgainstRoute(route, g, pathIndex, paths, inh, outlet)
		if err != nil {
			return result{}, err
		}
		if res.matched {
			return res, nil
		}
	}
	return noMatch(g), nil
}

func (r *recognizer) processAgainstRoute(route *routes.Route, raw *urltree.SegmentGroup, pathIndex int, paths []urltree.Segment, inh inherited, outlet string) (result, error) {
	if route.IsRedirect() || route.OutletName() != outlet {
		return noMatch(raw), nil
	}
	resolve := state.NewInheritedResolve(inh.resolve, route.Resolve, route.HasComponent())
	src, shift := r.sourceOf(raw)

	if route.IsWildcard() {
		var params map[string]string
		if len(paths) > 0 {
			params = paths[len(paths)-1].Params
		}
		return matched(state.NewSnapshot(state.SnapshotFields{
			URL:           paths,
			Params:        state.Merge(inh.params, params),
			Data:          state.Merge(inh.data, route.Data),
			Outlet:        outlet,
			Component:     route.Component,
			Route:         route,
			Source:        src,
			LastPathIndex: shift + pathIndex + len(paths) - 1,
			Resolve:       resolve,
		})), nil
	}

	m, ok := match(raw, route, paths, inh.snapshot)
	if !ok {
		return noMatch(raw), nil
	}
	childConfig, err := r.cache.ChildConfig(r.ctx, route)
	if err != nil {
		return result{}, err
	}
	g, sliced := r.split(raw, pathIndex, m.consumed, paths[m.lastIndex:], childConfig)

	snapshot := state.NewSnapshot(state.SnapshotFields{
		URL:           m.consumed,
		Params:        state.Merge(inh.params, m.params),
		Data:          state.Merge(inh.data, route.Data),
		Outlet:        outlet,
		Component:     route.Component,
		Route:         route,
		Source:        src,
		LastPathIndex: shift + pathIndex + m.lastIndex - 1,
		Resolve:       resolve,
	})
	next := inherited{snapshot: snapshot, params: snapshot.Params, data: snapshot.Data, resolve: resolve}
	if route.HasComponent() {
		next.params = m.params
		next.data = maps.Clone(route.Data)
	}

	var children result
	switch {
	case len(sliced) == 0 && g.HasChildren():
		children, err = r.processChildren(childConfig, g, next)
	case len(childConfig) == 0 && len(sliced) == 0:
		return matched(snapshot), nil
	default:
		children, err = r.processPaths(childConfig, g, pathIndex+m.lastIndex, sliced, next, urltree.PrimaryOutlet)
	}
	if err != nil || !children.matched {
		return children, err
	}
	snapshot.SetChildren(children.nodes)
	return matched(snapshot), nil
}

type matchResult struct {
	consumed  []urltree.Segment
	lastIndex int
	params    map[string]string
}

// match matches route against the start of paths. Positional params are
// merged with the matrix params of the last consumed segment; an empty path
// takes over the params of parent.
func match(g *urltree.SegmentGroup, route *routes.Route, paths []urltree.Segment, parent *state.ActivatedRouteSnapshot) (matchResult, bool) {
	if route.Path == "" {
		if route.Full() && (g.HasChildren() || len(paths) > 0) {
			return matchResult{}, false
		}
		params := map[string]string{}
		if parent != nil {
			params = parent.Params
		}
		return matchResult{params: params}, true
	}

	parts := route.Parts()
	if len(parts) > len(paths) {
		return matchResult{}, false
	}
	positional := make(map[string]string)
	for i, p := range parts {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			positional[name] = paths[i].Path
			continue
		}
		if p != paths[i].Path {
			return matchResult{}, false
		}
	}
	n := len(parts)
	if route.Full() && (g.HasChildren() || n < len(paths)) {
		return matchResult{}, false
	}
	return matchResult{
		consumed:  paths[:n:n],
		lastIndex: n,
		params:    state.Merge(positional, paths[n-1].Params),
	}, true
}

// checkOutletNames fails when two siblings claim the same outlet.
func checkOutletNames(nodes []*state.ActivatedRouteSnapshot) error {
	seen := make(map[string]*state.ActivatedRouteSnapshot, len(nodes))
	for _, n := range nodes {
		if prev, ok := seen[n.Outlet]; ok {
			return errors.New("R103").
				WithSubject(n.Outlet).
				WithDetailf("'%s' and '%s'", joinURL(prev.URL), joinURL(n.URL))
		}
		seen[n.Outlet] = n
	}
	return nil
}

func joinURL(segments []urltree.Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}
