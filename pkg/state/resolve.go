package state

import "maps"

// InheritedResolve is a link in the chain of resolved data. Each activated
// snapshot owns one; its parent is the link of the snapshot it inherits from.
//
// A boundary link belongs to a snapshot with a component: descendants see
// only the boundary's own resolved data, not what the boundary inherited.
type InheritedResolve struct {
	parent    *InheritedResolve
	resolvers map[string]string
	boundary  bool
	resolved  map[string]any
}

// NewInheritedResolve creates a link below parent. resolvers maps data keys
// to resolver capability ids.
func NewInheritedResolve(parent *InheritedResolve, resolvers map[string]string, boundary bool) *InheritedResolve {
	return &InheritedResolve{
		parent:    parent,
		resolvers: resolvers,
		boundary:  boundary,
		resolved:  make(map[string]any),
	}
}

// EmptyResolve returns a chain with no parent and no resolvers.
func EmptyResolve() *InheritedResolve {
	return NewInheritedResolve(nil, nil, false)
}

// Resolvers returns the resolver ids of this link by data key.
func (r *InheritedResolve) Resolvers() map[string]string {
	return r.resolvers
}

// Resolved returns this link's own resolved values.
func (r *InheritedResolve) Resolved() map[string]any {
	return r.resolved
}

// SetResolved replaces this link's own resolved values.
func (r *InheritedResolve) SetResolved(values map[string]any) {
	if values == nil {
		values = make(map[string]any)
	}
	r.resolved = values
}

// Flattened merges the resolved values visible at this link, closest last.
func (r *InheritedResolve) Flattened() map[string]any {
	if r.parent == nil {
		return maps.Clone(r.resolved)
	}
	return merge(r.parent.inheritable(), r.resolved)
}

func (r *InheritedResolve) inheritable() map[string]any {
	if r.boundary {
		return r.resolved
	}
	return r.Flattened()
}

// merge returns a new map holding a's entries overridden by b's.
func merge[V any](a, b map[string]V) map[string]V {
	out := make(map[string]V, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

// Merge is merge for callers outside the package.
func Merge[V any](a, b map[string]V) map[string]V {
	return merge(a, b)
}
