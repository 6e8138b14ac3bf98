package recognize

import (
	"maps"

	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// split adds empty groups for the empty path routes of config so that
// routes in several outlets match together. Every group it creates is
// recorded with the group and index it was carved from.
func (r *recognizer) split(g *urltree.SegmentGroup, pathIndex int, consumed, sliced []urltree.Segment, config routes.Routes) (*urltree.SegmentGroup, []urltree.Segment) {
	switch {
	case len(sliced) > 0 && hasNamedEmptyPathMatches(g, sliced, config):
		shift := pathIndex + len(consumed)
		primary := urltree.NewGroup(sliced, g.Children)
		r.sources[primary] = source{group: g, shift: shift}

		children := map[string]*urltree.SegmentGroup{urltree.PrimaryOutlet: primary}
		for _, route := range config {
			outlet := route.OutletName()
			if route.Path == "" && !route.IsRedirect() && outlet != urltree.PrimaryOutlet {
				children[outlet] = r.emptyGroup(g, shift)
			}
		}
		s := urltree.NewGroup(consumed, children)
		r.sources[s] = source{group: g, shift: pathIndex}
		return s, nil

	case len(sliced) == 0 && hasEmptyPathMatches(g, sliced, config):
		children := maps.Clone(g.Children)
		if children == nil {
			children = make(map[string]*urltree.SegmentGroup)
		}
		for _, route := range config {
			outlet := route.OutletName()
			if _, ok := children[outlet]; ok {
				continue
			}
			if emptyPathMatch(g, sliced, route) {
				children[outlet] = r.emptyGroup(g, len(g.Segments))
			}
		}
		s := urltree.NewGroup(g.Segments, children)
		r.sources[s] = source{group: g}
		return s, sliced
	}
	return g, sliced
}

func (r *recognizer) emptyGroup(from *urltree.SegmentGroup, shift int) *urltree.SegmentGroup {
	g := urltree.NewGroup(nil, nil)
	r.sources[g] = source{group: from, shift: shift}
	return g
}

func hasNamedEmptyPathMatches(g *urltree.SegmentGroup, sliced []urltree.Segment, config routes.Routes) bool {
	for _, r := range config {
		if emptyPathMatch(g, sliced, r) && r.OutletName() != urltree.PrimaryOutlet {
			return true
		}
	}
	return false
}

func hasEmptyPathMatches(g *urltree.SegmentGroup, sliced []urltree.Segment, config routes.Routes) bool {
	for _, r := range config {
		if emptyPathMatch(g, sliced, r) {
			return true
		}
	}
	return false
}

func emptyPathMatch(g *urltree.SegmentGroup, sliced []urltree.Segment, r *routes.Route) bool {
	if (g.HasChildren() || len(sliced) > 0) && r.Full() {
		return false
	}
	return r.Path == "" && !r.IsRedirect()
}
