package recognize

import (
	"context"
	"maps"
	"strings"
	"testing"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

func recognize(t *testing.T, config routes.Routes, url string) (*state.RouterStateSnapshot, *urltree.Tree, error) {
	t.Helper()
	if err := routes.Prepare(config); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	tree := urltree.MustParse(url)
	s, err := Recognize(context.Background(), nil, tree, config, "", "App")
	return s, tree, err
}

func mustRecognize(t *testing.T, config routes.Routes, url string) (*state.RouterStateSnapshot, *urltree.Tree) {
	t.Helper()
	s, tree, err := recognize(t, config, url)
	if err != nil {
		t.Fatalf("Recognize(%q) error = %v", url, err)
	}
	return s, tree
}

func checkParams(t *testing.T, s *state.ActivatedRouteSnapshot, want map[string]string) {
	t.Helper()
	if !maps.Equal(s.Params, want) {
		t.Errorf("%s params = %v, want %v", s, s.Params, want)
	}
}

func TestRecognize_Root(t *testing.T) {
	s, tree := mustRecognize(t, routes.Routes{{Path: "a", Component: "A"}}, "/a?q=1#top")

	if s.Root.Component != "App" || s.Root.RouteConfig != nil {
		t.Errorf("root = %+v", s.Root)
	}
	if s.Root.LastPathIndex() != -1 || s.Root.SourceGroup() != tree.Root {
		t.Error("root should point at the tree root")
	}
	if s.URL != "/a?q=1#top" {
		t.Errorf("URL = %q, want /a?q=1#top", s.URL)
	}
	if s.QueryParams["q"] != "1" {
		t.Errorf("QueryParams = %v", s.QueryParams)
	}
	if s.Fragment == nil || *s.Fragment != "top" {
		t.Errorf("Fragment = %v, want top", s.Fragment)
	}
}

func TestRecognize_Params(t *testing.T) {
	config := routes.Routes{{
		Path:      "team/:id",
		Component: "Team",
		Data:      map[string]any{"title": "Team"},
		Children:  routes.Routes{{Path: "user/:name", Component: "User"}},
	}}
	s, tree := mustRecognize(t, config, "/team/22;m=1/user/bob")

	team := s.Root.FirstChild()
	if team.Component != "Team" || len(team.URL) != 2 {
		t.Fatalf("team = %s", team)
	}
	checkParams(t, team, map[string]string{"id": "22", "m": "1"})
	if team.LastPathIndex() != 1 {
		t.Errorf("team LastPathIndex() = %d, want 1", team.LastPathIndex())
	}
	if team.SourceGroup() != tree.Root.Children[urltree.PrimaryOutlet] {
		t.Error("team should be carved from the primary group")
	}

	user := team.FirstChild()
	checkParams(t, user, map[string]string{"id": "22", "m": "1", "name": "bob"})
	if user.Data["title"] != "Team" {
		t.Errorf("user data = %v, want title inherited", user.Data)
	}
	if user.LastPathIndex() != 3 {
		t.Errorf("user LastPathIndex() = %d, want 3", user.LastPathIndex())
	}
}

func TestRecognize_Inheritance(t *testing.T) {
	config := routes.Routes{{
		Path:      "p/:pid",
		Component: "P",
		Data:      map[string]any{"p": 1},
		Children: routes.Routes{{
			Path: "a/:x",
			Data: map[string]any{"a": 1},
			Children: routes.Routes{{
				Path:      "b/:y",
				Component: "B",
				Data:      map[string]any{"b": 1},
				Children:  routes.Routes{{Path: "c/:z", Component: "C"}},
			}},
		}},
	}}
	s, _ := mustRecognize(t, config, "/p/1/a/2/b/3/c/4")

	p := s.Root.FirstChild()
	a := p.FirstChild()
	b := a.FirstChild()
	c := b.FirstChild()

	checkParams(t, a, map[string]string{"pid": "1", "x": "2"})
	checkParams(t, b, map[string]string{"pid": "1", "x": "2", "y": "3"})
	checkParams(t, c, map[string]string{"y": "3", "z": "4"})

	if len(b.Data) != 3 {
		t.Errorf("b data = %v, want p, a and b", b.Data)
	}
	if len(c.Data) != 1 || c.Data["b"] != 1 {
		t.Errorf("c data = %v, want only b", c.Data)
	}
}

func TestRecognize_EmptyPathChild(t *testing.T) {
	config := routes.Routes{{
		Path:      "a/:id",
		Component: "A",
		Children:  routes.Routes{{Path: "", Component: "Default"}},
	}}
	s, tree := mustRecognize(t, config, "/a/5")

	def := s.Root.FirstChild().FirstChild()
	if def == nil || def.Component != "Default" {
		t.Fatalf("default child = %v", def)
	}
	if len(def.URL) != 0 {
		t.Errorf("URL = %v, want none", def.URL)
	}
	checkParams(t, def, map[string]string{"id": "5"})
	if def.LastPathIndex() != 1 {
		t.Errorf("LastPathIndex() = %d, want 1", def.LastPathIndex())
	}
	if def.SourceGroup() != tree.Root.Children[urltree.PrimaryOutlet] {
		t.Error("empty path child should point at the original group")
	}
}

func TestRecognize_EmptyPathNamedOutlet(t *testing.T) {
	config := routes.Routes{{
		Path:      "a",
		Component: "A",
		Children: routes.Routes{
			{Path: "b", Component: "B"},
			{Path: "", Component: "Side", Outlet: "aux"},
		},
	}}
	s, tree := mustRecognize(t, config, "/a/b")
	group := tree.Root.Children[urltree.PrimaryOutlet]

	a := s.Root.FirstChild()
	kids := a.Children()
	if len(kids) != 2 {
		t.Fatalf("children of a = %d, want 2", len(kids))
	}
	b, side := kids[0], kids[1]
	if b.Component != "B" || side.Component != "Side" || side.Outlet != "aux" {
		t.Fatalf("children = %s, %s", b, side)
	}
	if b.SourceGroup() != group || b.LastPathIndex() != 1 {
		t.Errorf("b position = %d, want 1 in the original group", b.LastPathIndex())
	}
	if side.SourceGroup() != group || side.LastPathIndex() != 0 {
		t.Errorf("side position = %d, want 0 in the original group", side.LastPathIndex())
	}
}

func TestRecognize_NamedOutlets(t *testing.T) {
	config := routes.Routes{
		{Path: "a", Component: "A"},
		{Path: "c", Component: "C", Outlet: "side"},
		{Path: "b", Component: "B", Outlet: "aux"},
	}
	s, _ := mustRecognize(t, config, "/a(side:c//aux:b)")

	var outlets []string
	for _, c := range s.Root.Children() {
		outlets = append(outlets, c.Outlet)
	}
	if strings.Join(outlets, ",") != "primary,aux,side" {
		t.Errorf("outlets = %v, want primary,aux,side", outlets)
	}
}

func TestRecognize_Wildcard(t *testing.T) {
	s, _ := mustRecognize(t, routes.Routes{{Path: "**", Component: "NotFound"}}, "/x/y;p=1")

	nf := s.Root.FirstChild()
	if len(nf.URL) != 2 {
		t.Errorf("URL = %v, want both segments", nf.URL)
	}
	checkParams(t, nf, map[string]string{"p": "1"})
	if nf.LastPathIndex() != 1 {
		t.Errorf("LastPathIndex() = %d, want 1", nf.LastPathIndex())
	}
}

func TestRecognize_AfterEmptyPathRedirect(t *testing.T) {
	config := routes.Routes{{Path: "a", Children: routes.Routes{
		{Path: "", RedirectTo: routes.Redirect("b"), PathMatch: routes.PathMatchFull},
		{Path: "b", Component: "X"},
	}}}
	s, _ := mustRecognize(t, config, "/a/b")

	a := s.Root.FirstChild()
	if a.RouteConfig != config[0] {
		t.Fatalf("first child = %s, want a", a)
	}
	if x := a.FirstChild(); x == nil || x.Component != "X" {
		t.Errorf("child of a = %v, want X", x)
	}
}

func TestRecognize_Resolvers(t *testing.T) {
	config := routes.Routes{{
		Path:      "a",
		Component: "A",
		Resolve:   map[string]string{"user": "loadUser"},
	}}
	s, _ := mustRecognize(t, config, "/a")

	r := s.Root.FirstChild().Resolve()
	if r.Resolvers()["user"] != "loadUser" {
		t.Errorf("Resolvers() = %v", r.Resolvers())
	}
}

func TestRecognize_DeferredChildren(t *testing.T) {
	lazy := &routes.Route{Path: "lazy", LoadChildren: "lazy"}
	config := routes.Routes{lazy}
	if err := routes.Prepare(config); err != nil {
		t.Fatal(err)
	}
	cache := routes.NewLoadCache(routes.MapLoader{
		"lazy": routes.Routes{{Path: "x", Component: "X"}},
	}, nil)

	s, err := Recognize(context.Background(), cache, urltree.MustParse("/lazy/x"), config, "", "App")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if x := s.Root.FirstChild().FirstChild(); x == nil || x.Component != "X" {
		t.Errorf("lazy child = %v, want X", x)
	}
}

func TestRecognize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  routes.Routes
		url     string
		want    error
		message string
	}{
		{
			name: "redirects never match",
			config: routes.Routes{
				{Path: "a", RedirectTo: routes.Redirect("b")},
				{Path: "b", Component: "B"},
			},
			url:     "/a",
			want:    errors.ErrCannotMatch,
			message: "'a'",
		},
		{
			name:   "full match with remainder",
			config: routes.Routes{{Path: "a", PathMatch: routes.PathMatchFull, Component: "A"}},
			url:    "/a/b",
			want:   errors.ErrCannotMatch,
		},
		{
			name: "duplicate outlet",
			config: routes.Routes{
				{Path: "a", Component: "A"},
				{Path: "c", Component: "C", Outlet: "aux"},
				{Path: "d", Component: "D", Outlet: "aux"},
			},
			url:     "/a(aux:(aux:c)//side:(aux:d))",
			want:    errors.ErrDuplicateOutlet,
			message: "'c' and 'd'",
		},
		{
			name:   "unknown named outlet",
			config: routes.Routes{{Path: "a", Component: "A"}},
			url:    "/a(aux:b)",
			want:   errors.ErrCannotMatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := recognize(t, tt.config, tt.url)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Recognize(%q) error = %v, want %v", tt.url, err, tt.want)
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.message)
			}
		})
	}
}
