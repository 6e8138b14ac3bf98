package redirect

import (
	"maps"

	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// split prepares the group the child config is expanded against. Empty path
// redirects in named outlets get empty placeholder children so default
// content in several outlets resolves together.
func split(g *urltree.SegmentGroup, consumed, sliced []urltree.Segment, config routes.Routes) (*urltree.SegmentGroup, []urltree.Segment) {
	switch {
	case len(sliced) > 0 && hasNamedEmptyPathRedirects(g, sliced, config):
		primary := urltree.NewGroup(sliced, g.Children)
		s := urltree.NewGroup(consumed, childrenForEmptyPaths(config, primary))
		return mergeTrivialChildren(s), nil
	case len(sliced) == 0 && hasEmptyPathRedirects(g, sliced, config):
		s := urltree.NewGroup(g.Segments, addEmptyPaths(g, sliced, config, g.Children))
		return mergeTrivialChildren(s), sliced
	}
	return g, sliced
}

// mergeTrivialChildren absorbs a lone primary child into its parent.
func mergeTrivialChildren(s *urltree.SegmentGroup) *urltree.SegmentGroup {
	c, ok := s.Children[urltree.PrimaryOutlet]
	if !ok || s.NumberOfChildren() != 1 {
		return s
	}
	segments := make([]urltree.Segment, 0, len(s.Segments)+len(c.Segments))
	segments = append(segments, s.Segments...)
	segments = append(segments, c.Segments...)
	return urltree.NewGroup(segments, c.Children)
}

func addEmptyPaths(g *urltree.SegmentGroup, sliced []urltree.Segment, config routes.Routes, children map[string]*urltree.SegmentGroup) map[string]*urltree.SegmentGroup {
	res := maps.Clone(children)
	if res == nil {
		res = make(map[string]*urltree.SegmentGroup)
	}
	for _, r := range config {
		outlet := r.OutletName()
		if _, ok := res[outlet]; ok {
			continue
		}
		if emptyPathRedirect(g, sliced, r) {
			res[outlet] = urltree.NewGroup(nil, nil)
		}
	}
	return res
}

func childrenForEmptyPaths(config routes.Routes, primary *urltree.SegmentGroup) map[string]*urltree.SegmentGroup {
	res := map[string]*urltree.SegmentGroup{urltree.PrimaryOutlet: primary}
	for _, r := range config {
		if r.Path == "" && r.OutletName() != urltree.PrimaryOutlet {
			res[r.OutletName()] = urltree.NewGroup(nil, nil)
		}
	}
	return res
}

func hasNamedEmptyPathRedirects(g *urltree.SegmentGroup, sliced []urltree.Segment, config routes.Routes) bool {
	for _, r := range config {
		if emptyPathRedirect(g, sliced, r) && r.OutletName() != urltree.PrimaryOutlet {
			return true
		}
	}
	return false
}

func hasEmptyPathRedirects(g *urltree.SegmentGroup, sliced []urltree.Segment, config routes.Routes) bool {
	for _, r := range config {
		if emptyPathRedirect(g, sliced, r) {
			return true
		}
	}
	return false
}

func emptyPathRedirect(g *urltree.SegmentGroup, sliced []urltree.Segment, r *routes.Route) bool {
	if (g.HasChildren() || len(sliced) > 0) && r.Full() {
		return false
	}
	return r.Path == "" && r.IsRedirect()
}
