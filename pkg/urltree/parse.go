package urltree

import (
	"net/url"
	"strings"

	"github.com/vango-dev/routetree/internal/errors"
)

// Characters that terminate a path token, a query key and a query value.
const (
	segmentStop    = "/()?;=&#"
	queryKeyStop   = "=?&#"
	queryValueStop = "?&#"
)

// Parse parses a URL string into a Tree.
//
// Parsing is permissive: any character outside the grammar's delimiters is
// part of a literal, and invalid percent escapes are kept verbatim. It fails
// with ErrMalformedURL only for constructs that cannot be tokenized, such as
// an empty segment carrying matrix params or an unterminated outlet group.
func Parse(raw string) (*Tree, error) {
	p := &parser{url: raw, remaining: raw}

	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	query, err := p.parseQueryParams()
	if err != nil {
		return nil, err
	}
	fragment := p.parseFragment()
	return NewTree(root, query, fragment), nil
}

// MustParse is like Parse but panics on error. For tests and static URLs.
func MustParse(raw string) *Tree {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	url       string
	remaining string
}

func (p *parser) peek(s string) bool {
	return strings.HasPrefix(p.remaining, s)
}

func (p *parser) consume(s string) bool {
	if !p.peek(s) {
		return false
	}
	p.remaining = p.remaining[len(s):]
	return true
}

func (p *parser) fail(detail string) error {
	return errors.New("R001").WithSubject(p.url).WithDetail(detail)
}

func (p *parser) parseRoot() (*SegmentGroup, error) {
	p.consume("/")
	if p.remaining == "" || p.peek("?") || p.peek("#") {
		return NewGroup(nil, nil), nil
	}
	children, err := p.parseChildren()
	if err != nil {
		return nil, err
	}
	if p.remaining != "" && !p.peek("?") && !p.peek("#") {
		return nil, p.fail("unexpected '" + p.remaining + "'")
	}
	return NewGroup(nil, children), nil
}

// parseChildren parses "a/b;p=1/(x//aux:y)(side:z)" into the outlets it
// defines: the primary outlet holding the paths, plus any named siblings.
func (p *parser) parseChildren() (map[string]*SegmentGroup, error) {
	res := make(map[string]*SegmentGroup)
	if p.remaining == "" {
		return res, nil
	}
	p.consume("/")

	var segments []Segment
	if !p.peek("(") {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		for p.peek("/") && !p.peek("//") && !p.peek("/(") {
			p.consume("/")
			seg, err := p.parseSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		}
	}

	var children map[string]*SegmentGroup
	if p.peek("/(") {
		p.consume("/")
		var err error
		if children, err = p.parseParens(true); err != nil {
			return nil, err
		}
	}

	if p.peek("(") {
		named, err := p.parseParens(false)
		if err != nil {
			return nil, err
		}
		res = named
	}
	if len(segments) > 0 || len(children) > 0 {
		res[PrimaryOutlet] = NewGroup(segments, children)
	}
	return res, nil
}

func (p *parser) parseSegment() (Segment, error) {
	path := match(p.remaining, segmentStop)
	if path == "" && p.peek(";") {
		return Segment{}, p.fail("empty path segment cannot have parameters: '" + p.remaining + "'")
	}
	p.remaining = p.remaining[len(path):]

	var params map[string]string
	for p.peek(";") {
		p.consume(";")
		if params == nil {
			params = make(map[string]string)
		}
		p.parseParam(params, segmentStop, segmentStop)
	}
	return Segment{Path: decode(path), Params: params}, nil
}

func (p *parser) parseParam(params map[string]string, keyStop, valueStop string) {
	key := match(p.remaining, keyStop)
	if key == "" {
		return
	}
	p.remaining = p.remaining[len(key):]
	value := "true"
	if p.consume("=") {
		if v := match(p.remaining, valueStop); v != "" {
			value = v
			p.remaining = p.remaining[len(v):]
		}
	}
	params[decode(key)] = decode(value)
}

func (p *parser) parseQueryParams() (map[string]string, error) {
	params := make(map[string]string)
	if !p.consume("?") {
		return params, nil
	}
	p.parseParam(params, queryKeyStop, queryValueStop)
	for p.consume("&") {
		p.parseParam(params, queryKeyStop, queryValueStop)
	}
	if p.remaining != "" && !p.peek("#") {
		return nil, p.fail("malformed query near '" + p.remaining + "'")
	}
	return params, nil
}

func (p *parser) parseFragment() *string {
	if !p.peek("#") {
		return nil
	}
	f := decode(p.remaining[1:])
	p.remaining = ""
	return &f
}

// parseParens parses "(branch//branch...)". Branches without an outlet name
// are primary when allowPrimary is set and invalid otherwise.
func (p *parser) parseParens(allowPrimary bool) (map[string]*SegmentGroup, error) {
	groups := make(map[string]*SegmentGroup)
	p.consume("(")
	for !p.peek(")") && p.remaining != "" {
		path := match(p.remaining, segmentStop)
		var outlet string
		if i := strings.Index(path, ":"); i > 0 {
			outlet = path[:i]
			p.remaining = p.remaining[i+1:]
		} else if allowPrimary && i < 0 {
			outlet = PrimaryOutlet
		} else {
			return nil, p.fail("outlet name required near '" + p.remaining + "'")
		}

		children, err := p.parseChildren()
		if err != nil {
			return nil, err
		}
		if primary, ok := children[PrimaryOutlet]; ok && len(children) == 1 {
			groups[outlet] = primary
		} else {
			groups[outlet] = NewGroup(nil, children)
		}

		if !p.consume("//") && !p.peek(")") {
			break
		}
	}
	if !p.consume(")") {
		return nil, p.fail("unterminated outlet group")
	}
	return groups, nil
}

// match returns the longest prefix of s containing none of the stop bytes.
func match(s, stop string) string {
	if i := strings.IndexAny(s, stop); i >= 0 {
		return s[:i]
	}
	return s
}

// decode percent-decodes a token, keeping it verbatim when an escape is invalid.
func decode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	d, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return d
}
