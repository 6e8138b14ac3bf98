package routes

import (
	"strings"
	"sync/atomic"

	"github.com/vango-dev/routetree/pkg/urltree"
)

// PathMatch is the match mode of a route pattern.
type PathMatch string

const (
	// PathMatchPrefix accepts a pattern that consumes a prefix of the
	// remaining path, leaving the rest to child routes.
	PathMatchPrefix PathMatch = "prefix"

	// PathMatchFull requires the pattern to consume the whole remaining
	// path and every child outlet.
	PathMatchFull PathMatch = "full"
)

// Wildcard is the pattern that matches any remaining path.
const Wildcard = "**"

// Route is one statically configured routing rule.
//
// Exactly one of Component, RedirectTo, Children and LoadChildren decides
// what the route does; see Prepare for the full set of constraints.
type Route struct {
	// Path is the pattern: literal tokens, ":name" positional tokens, or "**".
	Path string `json:"path" yaml:"path"`

	// PathMatch is the match mode. Empty means prefix.
	PathMatch PathMatch `json:"pathMatch,omitempty" yaml:"pathMatch,omitempty"`

	// Component names the renderable unit placed in the outlet.
	Component string `json:"component,omitempty" yaml:"component,omitempty"`

	// RedirectTo is the redirect template. A leading "/" makes it absolute.
	RedirectTo *string `json:"redirectTo,omitempty" yaml:"redirectTo,omitempty"`

	// Outlet is the outlet the route renders into. Empty means primary.
	Outlet string `json:"outlet,omitempty" yaml:"outlet,omitempty"`

	// Data is static data exposed on the activated route.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`

	// Children is the inline child configuration.
	Children Routes `json:"children,omitempty" yaml:"children,omitempty"`

	// LoadChildren is the key passed to the Loader for deferred children.
	LoadChildren string `json:"loadChildren,omitempty" yaml:"loadChildren,omitempty"`

	// CanActivate and CanDeactivate list guard capability ids.
	CanActivate   []string `json:"canActivate,omitempty" yaml:"canActivate,omitempty"`
	CanDeactivate []string `json:"canDeactivate,omitempty" yaml:"canDeactivate,omitempty"`

	// Resolve maps data keys to resolver capability ids.
	Resolve map[string]string `json:"resolve,omitempty" yaml:"resolve,omitempty"`

	key atomic.Uint64
}

// Routes is an ordered route configuration.
type Routes []*Route

// Redirect returns a redirect template for Route.RedirectTo.
func Redirect(to string) *string {
	return &to
}

var lastKey atomic.Uint64

// Key returns the route's identity, assigned once by Prepare. It is zero
// for routes that were never prepared.
func (r *Route) Key() uint64 {
	return r.key.Load()
}

func (r *Route) assignKey() {
	if r.key.Load() == 0 {
		r.key.CompareAndSwap(0, lastKey.Add(1))
	}
}

// Same reports whether a and b are the same route instance. Reuse decisions
// compare identities, never route contents.
func Same(a, b *Route) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ka := a.Key(); ka != 0 {
		return ka == b.Key()
	}
	return a == b
}

// OutletName returns the outlet the route renders into.
func (r *Route) OutletName() string {
	if r.Outlet == "" {
		return urltree.PrimaryOutlet
	}
	return r.Outlet
}

// IsRedirect reports whether the route redirects.
func (r *Route) IsRedirect() bool {
	return r.RedirectTo != nil
}

// IsWildcard reports whether the route matches any remaining path.
func (r *Route) IsWildcard() bool {
	return r.Path == Wildcard
}

// Full reports whether the route requires a full match.
func (r *Route) Full() bool {
	return r.PathMatch == PathMatchFull
}

// HasComponent reports whether the route places a renderable unit, which
// makes it the inheritance root for its descendants.
func (r *Route) HasComponent() bool {
	return r.Component != ""
}

// Parts splits the pattern into its tokens. The empty pattern has none.
func (r *Route) Parts() []string {
	if r.Path == "" {
		return nil
	}
	return strings.Split(r.Path, "/")
}

// String returns a short description for logs and errors.
func (r *Route) String() string {
	var b strings.Builder
	b.WriteString("{path: '")
	b.WriteString(r.Path)
	b.WriteString("'")
	if r.IsRedirect() {
		b.WriteString(", redirectTo: '")
		b.WriteString(*r.RedirectTo)
		b.WriteString("'")
	}
	if r.Component != "" {
		b.WriteString(", component: ")
		b.WriteString(r.Component)
	}
	if r.Outlet != "" {
		b.WriteString(", outlet: ")
		b.WriteString(r.Outlet)
	}
	b.WriteString("}")
	return b.String()
}
