package urltree

import (
	"testing"

	"github.com/vango-dev/routetree/internal/errors"
)

func TestParse_Paths(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		paths []string
	}{
		{"root", "/", nil},
		{"empty", "", nil},
		{"single", "/one", []string{"one"}},
		{"nested", "/one/two/three", []string{"one", "two", "three"}},
		{"no leading slash", "one/two", []string{"one", "two"}},
		{"trailing slash", "/one/", []string{"one", ""}},
		{"encoded", "/a%20b/c%2Fd", []string{"a b", "c/d"}},
		{"invalid escape kept", "/a%zzb", []string{"a%zzb"}},
		{"colon is literal at top level", "/a:b", []string{"a:b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.url)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.url, err)
			}
			var got []string
			if p, ok := tree.Root.Children[PrimaryOutlet]; ok {
				for _, s := range p.Segments {
					got = append(got, s.Path)
				}
			}
			if len(got) != len(tt.paths) {
				t.Fatalf("paths = %v, want %v", got, tt.paths)
			}
			for i := range got {
				if got[i] != tt.paths[i] {
					t.Errorf("paths[%d] = %q, want %q", i, got[i], tt.paths[i])
				}
			}
		})
	}
}

func TestParse_MatrixParams(t *testing.T) {
	tree := MustParse("/one;a=1;b/two;c=x%3Dy")
	p := tree.Root.Children[PrimaryOutlet]

	if got := p.Segments[0].Params["a"]; got != "1" {
		t.Errorf("a = %q, want %q", got, "1")
	}
	if got := p.Segments[0].Params["b"]; got != "true" {
		t.Errorf("b = %q, want %q", got, "true")
	}
	if got := p.Segments[1].Params["c"]; got != "x=y" {
		t.Errorf("c = %q, want %q", got, "x=y")
	}
}

func TestParse_QueryAndFragment(t *testing.T) {
	tree := MustParse("/one?a=1&b&c=x%20y#frag%20ment")

	want := map[string]string{"a": "1", "b": "true", "c": "x y"}
	for k, v := range want {
		if tree.QueryParams[k] != v {
			t.Errorf("query[%q] = %q, want %q", k, tree.QueryParams[k], v)
		}
	}
	if tree.Fragment == nil || *tree.Fragment != "frag ment" {
		t.Errorf("Fragment = %v, want %q", tree.Fragment, "frag ment")
	}

	noFrag := MustParse("/one")
	if noFrag.Fragment != nil {
		t.Errorf("Fragment = %q, want nil", *noFrag.Fragment)
	}
	emptyFrag := MustParse("/one#")
	if emptyFrag.Fragment == nil || *emptyFrag.Fragment != "" {
		t.Error("empty fragment should be present and empty")
	}
}

func TestParse_Outlets(t *testing.T) {
	tree := MustParse("/one/(two//left:three)(right:four)")

	root := tree.Root
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	one := root.Children[PrimaryOutlet]
	if one.String() != "one" {
		t.Errorf("primary = %q, want %q", one.String(), "one")
	}
	if got := one.Children[PrimaryOutlet].String(); got != "two" {
		t.Errorf("one/primary = %q, want %q", got, "two")
	}
	if got := one.Children["left"].String(); got != "three" {
		t.Errorf("one/left = %q, want %q", got, "three")
	}
	if got := root.Children["right"].String(); got != "four" {
		t.Errorf("right = %q, want %q", got, "four")
	}
	if one.Children["left"].Parent() != one {
		t.Error("left child should point back at its group")
	}
}

func TestParse_NamedOnlyRoot(t *testing.T) {
	tree := MustParse("/(aux:popup)")
	if _, ok := tree.Root.Children[PrimaryOutlet]; ok {
		t.Error("root should have no primary child")
	}
	if got := tree.Root.Children["aux"].String(); got != "popup" {
		t.Errorf("aux = %q, want %q", got, "popup")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty segment with params", "/one/;a=1"},
		{"unterminated group", "/one(aux:two"},
		{"unnamed branch in named group", "/one(two)"},
		{"stray delimiter", "/one)"},
		{"double slash", "/one//two"},
		{"malformed query", "/one?a=1=2?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.url)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.url)
			}
			if !errors.Is(err, errors.ErrMalformedURL) {
				t.Errorf("error = %v, want ErrMalformedURL", err)
			}
		})
	}
}
