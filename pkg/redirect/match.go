package redirect

import (
	"strings"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

type matchResult struct {
	matched    bool
	consumed   []urltree.Segment
	lastIndex  int
	positional map[string]urltree.Segment
}

// match matches the pattern of r against the start of paths. g is the group
// the paths belong to; a full match must also leave g without children.
func match(g *urltree.SegmentGroup, r *routes.Route, paths []urltree.Segment) matchResult {
	if r.Path == "" {
		if r.Full() && (g.HasChildren() || len(paths) > 0) {
			return matchResult{}
		}
		return matchResult{matched: true}
	}

	parts := r.Parts()
	if len(parts) > len(paths) {
		return matchResult{}
	}
	positional := make(map[string]urltree.Segment)
	for i, p := range parts {
		current := paths[i]
		if name, ok := strings.CutPrefix(p, ":"); ok {
			positional[name] = current
			continue
		}
		if p != current.Path {
			return matchResult{}
		}
	}
	n := len(parts)
	if r.Full() && (g.HasChildren() || n < len(paths)) {
		return matchResult{}
	}
	return matchResult{
		matched:    true,
		consumed:   paths[:n:n],
		lastIndex:  n,
		positional: positional,
	}
}

// applyRedirect builds the paths a redirect template points to. ":name"
// tokens take the captured positional segment; literal tokens reuse a
// consumed segment with the same path, keeping its matrix params.
func applyRedirect(consumed []urltree.Segment, redirectTo string, positional map[string]urltree.Segment) ([]urltree.Segment, error) {
	r := strings.TrimPrefix(redirectTo, "/")
	if r == "" {
		return nil, nil
	}
	available := consumed
	parts := strings.Split(r, "/")
	out := make([]urltree.Segment, 0, len(parts))
	for _, p := range parts {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			seg, ok := positional[name]
			if !ok {
				return nil, errors.New("R101").
					WithSubject(redirectTo).
					WithDetailf("Cannot find '%s'", p)
			}
			out = append(out, seg)
			continue
		}
		var seg urltree.Segment
		seg, available = findOrCreatePath(p, available)
		out = append(out, seg)
	}
	return out, nil
}

// findOrCreatePath returns the first segment in paths with the given path and
// the segments before it, which are the only ones later tokens may reuse.
// Without a match it creates a segment without params.
func findOrCreatePath(part string, paths []urltree.Segment) (urltree.Segment, []urltree.Segment) {
	for i, s := range paths {
		if s.Path == part {
			return s, paths[:i]
		}
	}
	return urltree.NewSegment(part, nil), paths
}

func isAbsolute(redirectTo string) bool {
	return strings.HasPrefix(redirectTo, "/")
}
