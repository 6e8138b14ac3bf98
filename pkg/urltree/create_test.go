package urltree

import (
	"testing"

	"github.com/vango-dev/routetree/internal/errors"
)

func TestCreateTree_Absolute(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		commands []any
		want     string
	}{
		{"navigate to root", "/one/two", []any{"/"}, "/"},
		{"replace path", "/one/two", []any{"/one/three"}, "/one/three"},
		{"keep secondary outlets", "/one/two(right:three)", []any{"/one/three"}, "/one/three(right:three)"},
		{"params after path", "/a", []any{"/a", map[string]string{"p": "1"}}, "/a;p=1"},
		{"non-string values", "/", []any{"/team", 33, "user", 11}, "/team/33/user/11"},
		{"any-valued params", "/", []any{"/a", map[string]any{"n": 2}}, "/a;n=2"},
		{"no commands keeps tree", "/a/b(aux:c)", nil, "/a/b(aux:c)"},
		{"update outlet", "/a(right:b)", []any{"/", Outlets{"right": {"c"}}}, "/a(right:c)"},
		{"remove outlet", "/a(right:b)", []any{"/", Outlets{"right": nil}}, "/a"},
		{"primary through outlets", "/a(right:b)", []any{"/", Outlets{"": {"x/y"}}}, "/x/y(right:b)"},
		{"descend into children", "/a/(b//aux:c)", []any{"/a", "d"}, "/a/(d//aux:c)"},
		{"same path drops children", "/a/(b//aux:c)", []any{"/a"}, "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateTree(MustParse(tt.base), nil, tt.commands, nil, nil)
			if err != nil {
				t.Fatalf("CreateTree() error: %v", err)
			}
			if s := Serialize(got); s != tt.want {
				t.Errorf("CreateTree() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestCreateTree_Relative(t *testing.T) {
	base := MustParse("/a/c")
	group := base.Root.Children[PrimaryOutlet]

	tests := []struct {
		name     string
		last     int
		commands []any
		want     string
	}{
		{"sibling via ..", 1, []any{"../b"}, "/a/b"},
		{"child", 1, []any{"d"}, "/a/c/d"},
		{"dot child", 1, []any{"./d", "e"}, "/a/c/d/e"},
		{"two levels up", 1, []any{"../../x"}, "/x"},
		{"params on current segment", 1, []any{"..", map[string]string{"p": "1"}}, "/a/c;p=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := &Position{Group: group, LastPathIndex: tt.last}
			got, err := CreateTree(base, pos, tt.commands, nil, nil)
			if err != nil {
				t.Fatalf("CreateTree() error: %v", err)
			}
			if s := Serialize(got); s != tt.want {
				t.Errorf("CreateTree() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestCreateTree_RelativeToNamedOutlet(t *testing.T) {
	base := MustParse("/a(aux:b)")
	aux := base.Root.Children["aux"]

	got, err := CreateTree(base, &Position{Group: aux, LastPathIndex: 0}, []any{"c"}, nil, nil)
	if err != nil {
		t.Fatalf("CreateTree() error: %v", err)
	}
	if s := Serialize(got); s != "/a(aux:b/c)" {
		t.Errorf("CreateTree() = %q, want %q", s, "/a(aux:b/c)")
	}
	if got.Root.Children[PrimaryOutlet] != base.Root.Children[PrimaryOutlet] {
		t.Error("untouched primary group should be shared with the base tree")
	}
}

func TestCreateTree_QueryAndFragment(t *testing.T) {
	base := MustParse("/a?x=1#f")

	kept, err := CreateTree(base, nil, []any{"/b"}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := Serialize(kept); s != "/b?x=1#f" {
		t.Errorf("CreateTree() = %q, want %q", s, "/b?x=1#f")
	}

	frag := "g"
	replaced, err := CreateTree(base, nil, []any{"/b"}, map[string]string{"y": "2"}, &frag)
	if err != nil {
		t.Fatal(err)
	}
	if s := Serialize(replaced); s != "/b?y=2#g" {
		t.Errorf("CreateTree() = %q, want %q", s, "/b?y=2#g")
	}
}

func TestCreateTree_Errors(t *testing.T) {
	base := MustParse("/a/c")
	group := base.Root.Children[PrimaryOutlet]

	tests := []struct {
		name     string
		pos      *Position
		commands []any
	}{
		{"too many double dots", &Position{Group: group, LastPathIndex: 1}, []any{"../../../x"}},
		{"params on root", nil, []any{"/", map[string]string{"a": "1"}}},
		{"nil command", nil, []any{"/a", nil}},
		{"outlets in the middle", nil, []any{"/a", "b", Outlets{"aux": {"c"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateTree(base, tt.pos, tt.commands, nil, nil)
			if err == nil {
				t.Fatal("CreateTree() succeeded, want error")
			}
			if !errors.Is(err, errors.ErrInvalidCommands) {
				t.Errorf("error = %v, want ErrInvalidCommands", err)
			}
		})
	}
}
