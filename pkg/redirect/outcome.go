package redirect

import "github.com/vango-dev/routetree/pkg/urltree"

type kind int

const (
	// unmatched means no route applies; the caller tries the next one.
	unmatched kind = iota

	// rewritten carries the expanded segments and children of a group.
	rewritten

	// restart asks the top level to start over from a root holding paths.
	restart
)

// outcome is the result of expanding one segment group.
type outcome struct {
	kind kind

	// at is the group no route matched.
	at *urltree.SegmentGroup

	segments []urltree.Segment
	children map[string]*urltree.SegmentGroup

	paths []urltree.Segment
}

func noMatch(at *urltree.SegmentGroup) outcome {
	return outcome{kind: unmatched, at: at}
}

func rewrite(segments []urltree.Segment, children map[string]*urltree.SegmentGroup) outcome {
	return outcome{kind: rewritten, segments: segments, children: children}
}

func restartFrom(paths []urltree.Segment) outcome {
	return outcome{kind: restart, paths: paths}
}

// group builds the rewritten group. Each result group is built exactly once
// so children get it as their parent.
func (o outcome) group() *urltree.SegmentGroup {
	return urltree.NewGroup(o.segments, o.children)
}
