package urltree

import (
	"maps"
	"slices"
	"strings"
)

// Serialize renders a tree as a URL string.
//
// At the root the primary outlet's paths are inlined and named outlets are
// wrapped as "(name:...//name2:...)". Deeper groups with children render as
// "paths/(primary//name:...)". Map entries are written in sorted key order.
func Serialize(t *Tree) string {
	var b strings.Builder
	b.WriteByte('/')
	writeGroup(&b, t.Root, true)

	if len(t.QueryParams) > 0 {
		for i, k := range slices.Sorted(maps.Keys(t.QueryParams)) {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(encode(k))
			b.WriteByte('=')
			b.WriteString(encode(t.QueryParams[k]))
		}
	}
	if t.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(encode(*t.Fragment))
	}
	return b.String()
}

func writeGroup(b *strings.Builder, g *SegmentGroup, root bool) {
	if root && g.HasChildren() {
		if primary, ok := g.Children[PrimaryOutlet]; ok {
			writeGroup(b, primary, false)
		}
		first := true
		for _, name := range g.Outlets() {
			if name == PrimaryOutlet {
				continue
			}
			if first {
				b.WriteByte('(')
				first = false
			} else {
				b.WriteString("//")
			}
			b.WriteString(name)
			b.WriteByte(':')
			writeGroup(b, g.Children[name], false)
		}
		if !first {
			b.WriteByte(')')
		}
		return
	}

	writePaths(b, g)
	if root || !g.HasChildren() {
		return
	}
	b.WriteString("/(")
	for i, name := range g.Outlets() {
		if i > 0 {
			b.WriteString("//")
		}
		if name != PrimaryOutlet {
			b.WriteString(name)
			b.WriteByte(':')
		}
		writeGroup(b, g.Children[name], false)
	}
	b.WriteByte(')')
}

func writePaths(b *strings.Builder, g *SegmentGroup) {
	for i, s := range g.Segments {
		if i > 0 {
			b.WriteByte('/')
		}
		writeSegment(b, s)
	}
}

func writeSegment(b *strings.Builder, s Segment) {
	b.WriteString(encode(s.Path))
	for _, k := range slices.Sorted(maps.Keys(s.Params)) {
		b.WriteByte(';')
		b.WriteString(encode(k))
		b.WriteByte('=')
		b.WriteString(encode(s.Params[k]))
	}
}

const upperhex = "0123456789ABCDEF"

// encode percent-encodes every byte outside A-Z a-z 0-9 and -_.!~*'.
// Parentheses are encoded too since they delimit outlet groups.
func encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'':
		return false
	}
	return true
}
