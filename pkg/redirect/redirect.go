package redirect

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// MaxRestarts bounds how many absolute redirects one resolution follows.
const MaxRestarts = 16

// Apply expands every redirect of config in tree and returns the resulting
// tree. Query params and fragment are kept.
//
// Deferred child configurations are loaded through cache, which the caller
// shares with recognition of the same navigation.
func Apply(ctx context.Context, cache *routes.LoadCache, tree *urltree.Tree, config routes.Routes) (*urltree.Tree, error) {
	root := tree.Root
	var (
		last      []urltree.Segment
		restarted bool
	)
	for restarts := 0; ; restarts++ {
		out, err := expandGroup(ctx, cache, config, root, urltree.PrimaryOutlet)
		if err != nil {
			return nil, err
		}

		switch out.kind {
		case unmatched:
			return nil, errors.New("R100").WithSubject(out.at.String())
		case rewritten:
			return resultTree(tree, out), nil
		}

		// An absolute redirect to the path it was reached from is final.
		if restarted && urltree.EqualSegments(last, out.paths) {
			return resultTree(tree, rewrite(out.paths, nil)), nil
		}
		if restarts >= MaxRestarts {
			return nil, errors.New("R101").
				WithSubject(urltree.NewGroup(out.paths, nil).String()).
				WithDetail("too many absolute redirects")
		}
		last, restarted = out.paths, true
		root = rootFor(out.paths)
	}
}

func rootFor(paths []urltree.Segment) *urltree.SegmentGroup {
	if len(paths) == 0 {
		return urltree.NewGroup(nil, nil)
	}
	return urltree.NewGroup(nil, map[string]*urltree.SegmentGroup{
		urltree.PrimaryOutlet: urltree.NewGroup(paths, nil),
	})
}

func resultTree(base *urltree.Tree, out outcome) *urltree.Tree {
	root := out.group()
	if len(out.segments) > 0 {
		root = urltree.NewGroup(nil, map[string]*urltree.SegmentGroup{urltree.PrimaryOutlet: root})
	}
	return urltree.NewTree(root, base.QueryParams, base.Fragment)
}

func expandGroup(ctx context.Context, cache *routes.LoadCache, config routes.Routes, g *urltree.SegmentGroup, outlet string) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}
	if len(g.Segments) == 0 && g.HasChildren() {
		return expandChildren(ctx, cache, config, g, nil)
	}
	return expandPaths(ctx, cache, config, g, g.Segments, outlet, true)
}

// expandChildren expands every child of g concurrently and rebuilds them
// under segments. Outcomes are inspected in outlet order.
func expandChildren(ctx context.Context, cache *routes.LoadCache, config routes.Routes, g *urltree.SegmentGroup, segments []urltree.Segment) (outcome, error) {
	outlets := g.Outlets()
	results := make([]outcome, len(outlets))

	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range outlets {
		eg.Go(func() error {
			out, err := expandGroup(ctx, cache, config, g.Children[name], name)
			results[i] = out
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return outcome{}, err
	}

	children := make(map[string]*urltree.SegmentGroup, len(outlets))
	for i, name := range outlets {
		if results[i].kind != rewritten {
			return results[i], nil
		}
		children[name] = results[i].group()
	}
	return rewrite(segments, children), nil
}

// expandPaths tries the routes of config in order and returns the first
// outcome that is not unmatched.
func expandPaths(ctx context.Context, cache *routes.LoadCache, config routes.Routes, g *urltree.SegmentGroup, paths []urltree.Segment, outlet string, allowRedirects bool) (outcome, error) {
	for _, r := range config {
		out, err := expandAgainstRoute(ctx, cache, config, g, r, paths, outlet, allowRedirects)
		if err != nil {
			return outcome{}, err
		}
		if out.kind != unmatched {
			return out, nil
		}
	}
	return noMatch(g), nil
}

func expandAgainstRoute(ctx context.Context, cache *routes.LoadCache, config routes.Routes, g *urltree.SegmentGroup, r *routes.Route, paths []urltree.Segment, outlet string, allowRedirects bool) (outcome, error) {
	if r.OutletName() != outlet {
		return noMatch(g), nil
	}
	if !r.IsRedirect() {
		return matchAgainstRoute(ctx, cache, g, r, paths)
	}
	if !allowRedirects {
		return noMatch(g), nil
	}
	if r.IsWildcard() {
		return expandWildcardRedirect(r)
	}

	m := match(g, r, paths)
	if !m.matched {
		return noMatch(g), nil
	}
	newPaths, err := applyRedirect(m.consumed, *r.RedirectTo, m.positional)
	if err != nil {
		return outcome{}, err
	}
	if isAbsolute(*r.RedirectTo) {
		return restartFrom(newPaths), nil
	}
	rest := make([]urltree.Segment, 0, len(newPaths)+len(paths)-m.lastIndex)
	rest = append(rest, newPaths...)
	rest = append(rest, paths[m.lastIndex:]...)
	return expandPaths(ctx, cache, config, g, rest, outlet, false)
}

func expandWildcardRedirect(r *routes.Route) (outcome, error) {
	newPaths, err := applyRedirect(nil, *r.RedirectTo, nil)
	if err != nil {
		return outcome{}, err
	}
	if isAbsolute(*r.RedirectTo) {
		return restartFrom(newPaths), nil
	}
	return rewrite(newPaths, nil), nil
}

func matchAgainstRoute(ctx context.Context, cache *routes.LoadCache, g *urltree.SegmentGroup, r *routes.Route, paths []urltree.Segment) (outcome, error) {
	if r.IsWildcard() {
		return rewrite(paths, nil), nil
	}

	m := match(g, r, paths)
	if !m.matched {
		return noMatch(g), nil
	}
	childConfig, err := cache.ChildConfig(ctx, r)
	if err != nil {
		return outcome{}, err
	}

	seg, sliced := split(g, m.consumed, paths[m.lastIndex:], childConfig)
	switch {
	case len(sliced) == 0 && seg.HasChildren():
		return expandChildren(ctx, cache, childConfig, seg, m.consumed)
	case len(childConfig) == 0 && len(sliced) == 0:
		return rewrite(m.consumed, nil), nil
	}

	out, err := expandPaths(ctx, cache, childConfig, seg, sliced, urltree.PrimaryOutlet, true)
	if err != nil || out.kind != rewritten {
		return out, err
	}
	segments := make([]urltree.Segment, 0, len(m.consumed)+len(out.segments))
	segments = append(segments, m.consumed...)
	segments = append(segments, out.segments...)
	return rewrite(segments, out.children), nil
}
