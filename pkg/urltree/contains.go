package urltree

import "maps"

// Contains reports whether container contains containee.
//
// With exact set, the two trees must have structurally equal groups and equal
// query params. Otherwise containee's paths must be a prefix of container's
// at every level; wherever containee continues past container's frontier,
// container must expose a primary child to continue into. Query params of
// containee must be present in container. Fragments never participate.
func Contains(container, containee *Tree, exact bool) bool {
	if exact {
		return maps.Equal(container.QueryParams, containee.QueryParams) &&
			EqualGroups(container.Root, containee.Root)
	}
	for k, v := range containee.QueryParams {
		if cv, ok := container.QueryParams[k]; !ok || cv != v {
			return false
		}
	}
	return containsGroup(container.Root, containee.Root, containee.Root.Segments)
}

func containsGroup(container, containee *SegmentGroup, paths []Segment) bool {
	switch {
	case len(container.Segments) > len(paths):
		if !EqualSegments(container.Segments[:len(paths)], paths) {
			return false
		}
		return !containee.HasChildren()

	case len(container.Segments) == len(paths):
		if !EqualSegments(container.Segments, paths) {
			return false
		}
		for name, c := range containee.Children {
			cc, ok := container.Children[name]
			if !ok || !containsGroup(cc, c, c.Segments) {
				return false
			}
		}
		return true

	default:
		n := len(container.Segments)
		if !EqualSegments(container.Segments, paths[:n]) {
			return false
		}
		primary, ok := container.Children[PrimaryOutlet]
		if !ok {
			return false
		}
		return containsGroup(primary, containee, paths[n:])
	}
}
