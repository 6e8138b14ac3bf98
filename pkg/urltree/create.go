package urltree

import (
	"fmt"
	"maps"
	"strings"

	"github.com/vango-dev/routetree/internal/errors"
)

// Outlets is a navigation command targeting named outlets. Each value is the
// command list for that outlet; a nil list removes the outlet. The key "" is
// the primary outlet.
type Outlets map[string][]any

// Position is where relative commands are applied: the group a route was
// matched from and the index of the last segment it consumed (-1 when it
// consumed none).
type Position struct {
	Group         *SegmentGroup
	LastPathIndex int
}

// CreateTree applies navigation commands to base and returns the new tree.
//
// Commands are path strings ("/a/b", "../x", "./y", "team"), values
// rendered with fmt.Sprint (33), matrix params following a path
// (map[string]string or map[string]any) and Outlets. A leading "/" makes
// the commands absolute; otherwise they apply relative to from, which
// defaults to the root. A nil query or fragment keeps the one of base.
func CreateTree(base *Tree, from *Position, commands []any, query map[string]string, fragment *string) (*Tree, error) {
	if len(commands) == 0 {
		return replaceInTree(base, base.Root, base.Root, query, fragment), nil
	}

	n, err := normalizeCommands(commands)
	if err != nil {
		return nil, err
	}
	if n.absolute && len(n.commands) > 0 {
		if _, ok := paramsOf(n.commands[0]); ok {
			return nil, errors.New("R002").WithDetail("root segment cannot have matrix parameters")
		}
	}
	if n.toRoot {
		return replaceInTree(base, base.Root, NewGroup(nil, nil), query, fragment), nil
	}

	if from == nil {
		from = &Position{Group: base.Root, LastPathIndex: -1}
	}
	start, index, processChildren, err := startingPosition(n, base, from)
	if err != nil {
		return nil, err
	}

	var g *SegmentGroup
	if processChildren {
		g, err = updateChildren(start, index, n.commands)
	} else {
		g, err = updateGroup(start, index, n.commands)
	}
	if err != nil {
		return nil, err
	}
	return replaceInTree(base, start, g, query, fragment), nil
}

type normalized struct {
	absolute   bool
	toRoot     bool
	doubleDots int
	commands   []any
}

func normalizeCommands(commands []any) (normalized, error) {
	if s, ok := commands[0].(string); ok && s == "/" && len(commands) == 1 {
		return normalized{absolute: true, toRoot: true}, nil
	}

	var n normalized
	for i, c := range commands {
		switch c := c.(type) {
		case Outlets:
			out := make(Outlets, len(c))
			for name, cmds := range c {
				if name == "" {
					name = PrimaryOutlet
				}
				if cmds == nil {
					out[name] = nil
					continue
				}
				out[name] = splitPaths(cmds)
			}
			n.commands = append(n.commands, out)
		case string:
			for j, part := range strings.Split(c, "/") {
				switch {
				case i == 0 && j == 0 && part == ".":
				case i == 0 && j == 0 && part == "":
					n.absolute = true
				case i == 0 && part == "..":
					n.doubleDots++
				case part != "":
					n.commands = append(n.commands, part)
				}
			}
		case nil:
			return n, errors.New("R002").WithDetailf("command %d is nil", i)
		default:
			n.commands = append(n.commands, c)
		}
	}
	return n, nil
}

// splitPaths expands "a/b" path strings of an outlet command list.
func splitPaths(cmds []any) []any {
	out := make([]any, 0, len(cmds))
	for _, c := range cmds {
		s, ok := c.(string)
		if !ok {
			out = append(out, c)
			continue
		}
		for _, part := range strings.Split(s, "/") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func startingPosition(n normalized, base *Tree, from *Position) (*SegmentGroup, int, bool, error) {
	switch {
	case n.absolute:
		return base.Root, 0, true, nil
	case from.LastPathIndex == -1:
		return from.Group, 0, true, nil
	case from.LastPathIndex+1-n.doubleDots >= 0:
		return from.Group, from.LastPathIndex + 1 - n.doubleDots, false, nil
	}
	return nil, 0, false, errors.New("R002").WithDetail("invalid number of '../'")
}

func updateGroup(g *SegmentGroup, start int, commands []any) (*SegmentGroup, error) {
	if g == nil {
		g = NewGroup(nil, nil)
	}
	if len(g.Segments) == 0 && g.HasChildren() {
		return updateChildren(g, start, commands)
	}

	matched, last := prefixedWith(g, start, commands)
	rest := commands[last:]
	switch {
	case matched && len(rest) == 0:
		return NewGroup(g.Segments, nil), nil
	case matched && g.HasChildren():
		return updateChildren(g, 0, rest)
	default:
		return createGroup(g, start, commands)
	}
}

func updateChildren(g *SegmentGroup, start int, commands []any) (*SegmentGroup, error) {
	if len(commands) == 0 {
		return NewGroup(g.Segments, nil), nil
	}

	outlets := outletsOf(commands)
	children := make(map[string]*SegmentGroup, len(g.Children)+len(outlets))
	for name, cmds := range outlets {
		if cmds == nil {
			continue
		}
		c, err := updateGroup(g.Children[name], start, cmds)
		if err != nil {
			return nil, err
		}
		children[name] = c
	}
	for name, c := range g.Children {
		if _, ok := outlets[name]; !ok {
			children[name] = c
		}
	}
	return NewGroup(g.Segments, children), nil
}

func outletsOf(commands []any) Outlets {
	if o, ok := commands[0].(Outlets); ok {
		return o
	}
	return Outlets{PrimaryOutlet: commands}
}

// prefixedWith reports whether the commands match every segment of g from
// start on, and the index of the first unconsumed command.
func prefixedWith(g *SegmentGroup, start int, commands []any) (bool, int) {
	ci := 0
	for pi := start; pi < len(g.Segments); pi++ {
		if ci >= len(commands) {
			return false, 0
		}
		path, ok := pathOf(commands[ci])
		if !ok {
			return false, 0
		}
		var params map[string]string
		step := 1
		if ci+1 < len(commands) {
			if p, ok := paramsOf(commands[ci+1]); ok && path != "" {
				params, step = p, 2
			}
		}
		seg := g.Segments[pi]
		if seg.Path != path || !maps.Equal(seg.Params, params) {
			return false, 0
		}
		ci += step
	}
	return true, ci
}

func createGroup(g *SegmentGroup, start int, commands []any) (*SegmentGroup, error) {
	keep := min(start, len(g.Segments))
	segments := append([]Segment(nil), g.Segments[:keep]...)

	for i := 0; i < len(commands); {
		if i == 0 {
			// Leading matrix params apply to the segment at start.
			if p, ok := paramsOf(commands[0]); ok {
				if start >= len(g.Segments) {
					return nil, errors.New("R002").WithDetail("matrix parameters without a path")
				}
				segments = append(segments, Segment{Path: g.Segments[start].Path, Params: p})
				i++
				continue
			}
		}
		path, ok := pathOf(commands[i])
		if !ok {
			return nil, errors.New("R002").WithDetailf("unexpected command %v", commands[i])
		}
		if i+1 < len(commands) && path != "" {
			if p, ok := paramsOf(commands[i+1]); ok {
				segments = append(segments, Segment{Path: path, Params: p})
				i += 2
				continue
			}
		}
		segments = append(segments, Segment{Path: path})
		i++
	}
	return NewGroup(segments, nil), nil
}

func pathOf(c any) (string, bool) {
	switch c := c.(type) {
	case string:
		return c, true
	case Outlets, map[string]string, map[string]any:
		return "", false
	default:
		return fmt.Sprint(c), true
	}
}

func paramsOf(c any) (map[string]string, bool) {
	switch c := c.(type) {
	case map[string]string:
		return c, true
	case map[string]any:
		out := make(map[string]string, len(c))
		for k, v := range c {
			out[k] = fmt.Sprint(v)
		}
		return out, true
	}
	return nil, false
}

func replaceInTree(base *Tree, old, updated *SegmentGroup, query map[string]string, fragment *string) *Tree {
	if query == nil {
		query = base.QueryParams
	}
	if fragment == nil {
		fragment = base.Fragment
	}
	if base.Root == old {
		return NewTree(updated, query, fragment)
	}
	return NewTree(replaceGroup(base.Root, old, updated), query, fragment)
}

// replaceGroup rebuilds the groups on the path from current to old and
// shares every other group.
func replaceGroup(current, old, updated *SegmentGroup) *SegmentGroup {
	var children map[string]*SegmentGroup
	for name, c := range current.Children {
		r := updated
		if c != old {
			r = replaceGroup(c, old, updated)
		}
		if r == c {
			continue
		}
		if children == nil {
			children = maps.Clone(current.Children)
		}
		children[name] = r
	}
	if children == nil {
		return current
	}
	return NewGroup(current.Segments, children)
}
