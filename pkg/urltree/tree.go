package urltree

import (
	"maps"
	"slices"
	"strings"
)

// PrimaryOutlet is the name of the default, unnamed outlet.
const PrimaryOutlet = "primary"

// Segment is one "/"-delimited URL token plus its matrix parameters.
type Segment struct {
	Path   string
	Params map[string]string
}

// NewSegment returns a segment with the given path and matrix parameters.
func NewSegment(path string, params map[string]string) Segment {
	return Segment{Path: path, Params: params}
}

// String returns the serialized form of the segment ("path;k=v").
func (s Segment) String() string {
	var b strings.Builder
	writeSegment(&b, s)
	return b.String()
}

// Equal reports whether two segments have the same path and matrix params.
func (s Segment) Equal(o Segment) bool {
	return s.Path == o.Path && maps.Equal(s.Params, o.Params)
}

// SegmentGroup is a node of the URL tree: its own path segments plus child
// groups keyed by outlet name.
type SegmentGroup struct {
	Segments []Segment
	Children map[string]*SegmentGroup

	parent *SegmentGroup
}

// NewGroup creates a segment group. Children that have no parent yet get g
// as their parent; children shared with another tree keep their original one.
func NewGroup(segments []Segment, children map[string]*SegmentGroup) *SegmentGroup {
	if children == nil {
		children = make(map[string]*SegmentGroup)
	}
	g := &SegmentGroup{Segments: segments, Children: children}
	for _, c := range children {
		if c.parent == nil {
			c.parent = g
		}
	}
	return g
}

// Parent returns the group this group was first attached to, or nil.
func (g *SegmentGroup) Parent() *SegmentGroup {
	return g.parent
}

// HasChildren reports whether the group has any child groups.
func (g *SegmentGroup) HasChildren() bool {
	return len(g.Children) > 0
}

// NumberOfChildren returns the number of child groups.
func (g *SegmentGroup) NumberOfChildren() int {
	return len(g.Children)
}

// Outlets returns the outlet names of the group's children in canonical
// order: the primary outlet first, then the named outlets sorted by name.
func (g *SegmentGroup) Outlets() []string {
	return SortOutlets(slices.Collect(maps.Keys(g.Children)))
}

// String returns the serialized paths of the group, without children.
func (g *SegmentGroup) String() string {
	var b strings.Builder
	writePaths(&b, g)
	return b.String()
}

// SortOutlets sorts outlet names in place into canonical order and returns
// the slice.
func SortOutlets(names []string) []string {
	slices.SortFunc(names, CompareOutlets)
	return names
}

// CompareOutlets orders the primary outlet before every named outlet and
// named outlets lexically.
func CompareOutlets(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == PrimaryOutlet:
		return -1
	case b == PrimaryOutlet:
		return 1
	}
	return strings.Compare(a, b)
}

// Tree is a parsed URL: a root segment group, query parameters and an
// optional fragment. Trees are never mutated; every transformation builds a
// new tree that shares unaffected groups.
type Tree struct {
	Root        *SegmentGroup
	QueryParams map[string]string
	Fragment    *string
}

// NewTree creates a tree. A nil root is replaced by an empty group.
func NewTree(root *SegmentGroup, query map[string]string, fragment *string) *Tree {
	if root == nil {
		root = NewGroup(nil, nil)
	}
	if query == nil {
		query = make(map[string]string)
	}
	return &Tree{Root: root, QueryParams: query, Fragment: fragment}
}

// Empty returns the tree of the URL "/".
func Empty() *Tree {
	return NewTree(nil, nil, nil)
}

// String returns the serialized URL.
func (t *Tree) String() string {
	return Serialize(t)
}

// Equal reports whether two trees are structurally equal: same groups,
// segments, matrix params, query params and fragment.
func Equal(a, b *Tree) bool {
	if !EqualGroups(a.Root, b.Root) || !maps.Equal(a.QueryParams, b.QueryParams) {
		return false
	}
	if (a.Fragment == nil) != (b.Fragment == nil) {
		return false
	}
	return a.Fragment == nil || *a.Fragment == *b.Fragment
}

// EqualGroups reports whether two groups are deeply equal.
func EqualGroups(a, b *SegmentGroup) bool {
	if !EqualSegments(a.Segments, b.Segments) || len(a.Children) != len(b.Children) {
		return false
	}
	for name, c := range b.Children {
		other, ok := a.Children[name]
		if !ok || !EqualGroups(other, c) {
			return false
		}
	}
	return true
}

// EqualSegments compares two segment lists including matrix params.
func EqualSegments(a, b []Segment) bool {
	return slices.EqualFunc(a, b, Segment.Equal)
}

// EqualPaths compares two segment lists by path only.
func EqualPaths(a, b []Segment) bool {
	return slices.EqualFunc(a, b, func(x, y Segment) bool { return x.Path == y.Path })
}
