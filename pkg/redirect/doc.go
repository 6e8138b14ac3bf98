// Package redirect expands the redirects of a route configuration in a URL
// tree before recognition.
//
// Routes are tried in order against each segment group; the first route
// that applies wins. A relative redirect replaces the consumed segments and
// matching continues at the same level with redirects disabled, so a route
// cannot redirect to itself. An absolute redirect restarts resolution from
// the root, at most MaxRestarts times.
//
//	tree, err := redirect.Apply(ctx, cache, urltree.MustParse("/old/1"), config)
package redirect
