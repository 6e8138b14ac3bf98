package routes

import (
	"testing"

	"github.com/vango-dev/routetree/internal/errors"
)

func TestDecode_JSON(t *testing.T) {
	data := []byte(`[
		{"path": "", "redirectTo": "inbox", "pathMatch": "full"},
		{"path": "inbox", "component": "Inbox", "data": {"title": "Inbox"},
		 "canActivate": ["auth"], "resolve": {"user": "currentUser"},
		 "children": [{"path": ":id", "component": "Message", "outlet": "aux"}]},
		{"path": "admin", "loadChildren": "admin"}
	]`)

	config, err := Decode(data, FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(config) != 3 {
		t.Fatalf("len(config) = %d, want 3", len(config))
	}
	if config[0].RedirectTo == nil || *config[0].RedirectTo != "inbox" || !config[0].Full() {
		t.Errorf("config[0] = %s", config[0])
	}
	inbox := config[1]
	if inbox.Data["title"] != "Inbox" {
		t.Errorf("Data[title] = %v", inbox.Data["title"])
	}
	if len(inbox.CanActivate) != 1 || inbox.CanActivate[0] != "auth" {
		t.Errorf("CanActivate = %v", inbox.CanActivate)
	}
	if inbox.Resolve["user"] != "currentUser" {
		t.Errorf("Resolve = %v", inbox.Resolve)
	}
	if inbox.Children[0].OutletName() != "aux" {
		t.Errorf("child outlet = %q", inbox.Children[0].OutletName())
	}
	if config[2].LoadChildren != "admin" {
		t.Errorf("LoadChildren = %q", config[2].LoadChildren)
	}
	if err := Prepare(config); err != nil {
		t.Errorf("Prepare() error: %v", err)
	}
}

func TestDecode_JSONDocument(t *testing.T) {
	config, err := Decode([]byte(`{"routes": [{"path": "a", "component": "A"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(config) != 1 || config[0].Component != "A" {
		t.Errorf("config = %v", config)
	}
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
routes:
  - path: ""
    redirectTo: home
    pathMatch: full
  - path: home
    component: Home
    data:
      title: Home
    children:
      - path: "**"
        component: Missing
`)
	config, err := Decode(data, FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("len(config) = %d, want 2", len(config))
	}
	if *config[0].RedirectTo != "home" {
		t.Errorf("RedirectTo = %q", *config[0].RedirectTo)
	}
	if config[1].Data["title"] != "Home" {
		t.Errorf("Data = %v", config[1].Data)
	}
	if !config[1].Children[0].IsWildcard() {
		t.Error("child should be a wildcard")
	}

	list, err := Decode([]byte("- path: x\n  component: X\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(list) != 1 || list[0].Path != "x" {
		t.Errorf("list = %v", list)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"bad json", `[{"path": }]`, FormatJSON},
		{"wrong json type", `[{"path": 1}]`, FormatJSON},
		{"bad yaml", "- path: [", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("Decode() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"admin.json":  FormatJSON,
		"admin.yaml":  FormatYAML,
		"admin.YML":   FormatYAML,
		"routes":      FormatJSON,
		"a/b/c.yml":   FormatYAML,
		"config.json": FormatJSON,
	}
	for name, want := range tests {
		if got := FormatOf(name); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", name, got, want)
		}
	}
}
