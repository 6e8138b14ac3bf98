package inspect

import (
	"strings"

	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

type segmentJSON struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
}

type groupJSON struct {
	Segments []segmentJSON        `json:"segments"`
	Children map[string]groupJSON `json:"children,omitempty"`
}

type treeJSON struct {
	URL         string            `json:"url"`
	Root        groupJSON         `json:"root"`
	QueryParams map[string]string `json:"queryParams,omitempty"`
	Fragment    *string           `json:"fragment,omitempty"`
}

type routeJSON struct {
	Path      string            `json:"path,omitempty"`
	Outlet    string            `json:"outlet"`
	Component string            `json:"component,omitempty"`
	URL       string            `json:"url"`
	Params    map[string]string `json:"params,omitempty"`
	Data      map[string]any    `json:"data,omitempty"`
	Children  []routeJSON       `json:"children,omitempty"`
}

func renderTree(t *urltree.Tree) treeJSON {
	return treeJSON{
		URL:         urltree.Serialize(t),
		Root:        renderGroup(t.Root),
		QueryParams: t.QueryParams,
		Fragment:    t.Fragment,
	}
}

func renderGroup(g *urltree.SegmentGroup) groupJSON {
	out := groupJSON{Segments: make([]segmentJSON, len(g.Segments))}
	for i, s := range g.Segments {
		out.Segments[i] = segmentJSON{Path: s.Path, Params: s.Params}
	}
	if g.HasChildren() {
		out.Children = make(map[string]groupJSON, len(g.Children))
		for _, name := range g.Outlets() {
			out.Children[name] = renderGroup(g.Children[name])
		}
	}
	return out
}

func renderSnapshot(s *state.ActivatedRouteSnapshot) routeJSON {
	out := routeJSON{
		Outlet:    s.Outlet,
		Component: s.Component,
		URL:       joinSegments(s.URL),
		Params:    s.Params,
		Data:      s.Data,
	}
	if s.RouteConfig != nil {
		out.Path = s.RouteConfig.Path
	}
	for _, c := range s.Children() {
		out.Children = append(out.Children, renderSnapshot(c))
	}
	return out
}

// renderNode renders the committed snapshots of a live state.
func renderNode(n *state.Node) routeJSON {
	snap := n.Route.Current()
	if snap == nil {
		snap = n.Future
	}
	out := renderSnapshot(snap)
	out.Children = nil
	for _, c := range n.Children() {
		out.Children = append(out.Children, renderNode(c))
	}
	return out
}

func joinSegments(segments []urltree.Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, "/")
}
