// Package urltree implements the tree-structured URL model and its textual
// grammar.
//
// A URL is a tree of segment groups. Each group holds its own path segments
// and child groups keyed by outlet name; "primary" is the default outlet.
//
//	/inbox/33;open=true/(messages//aux:popup)(side:chat)?debug=1#top
//
// parses into a root whose primary child is "inbox/33;open=true" with
// children "messages" (primary) and "popup" (aux), a named root child "chat"
// (side), the query {debug: 1} and the fragment "top".
//
// Parse and Serialize are inverses for trees that do not nest outlet groups
// ambiguously. Trees are immutable: CreateTree applies navigation commands
// and returns a new tree sharing every untouched group.
package urltree
