package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/routetree/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, "init", dir)
	if err != nil {
		t.Fatalf("init error = %v\n%s", err, out)
	}
	return filepath.Join(dir, "routetree.json")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", dir)
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	for _, name := range []string{"routetree.json", "routes.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
		if !strings.Contains(out, name) {
			t.Errorf("output does not mention %s:\n%s", name, out)
		}
	}

	if _, err := run(t, "init", dir); errors.Code(err) != "R120" {
		t.Errorf("second init: code = %q, want R120", errors.Code(err))
	}
	if _, err := run(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestParse(t *testing.T) {
	out, err := run(t, "parse", "/team/33;admin=true(aux:help)?debug=1#top")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	for _, want := range []string{
		"primary: team/33;admin=true",
		"aux: help",
		"query: {debug=1}",
		"fragment: top",
		"url: /team/33;admin=true(aux:help)?debug=1#top",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "parse", "/a("); errors.Code(err) != "R001" {
		t.Errorf("malformed: code = %q, want R001", errors.Code(err))
	}
}

func TestResolve(t *testing.T) {
	config := initProject(t)

	tests := []struct {
		url  string
		want []string
	}{
		{"/", []string{"after redirects: /home", "primary Home"}},
		{"/team/3/user/ann", []string{"primary Team", "primary User", "name=ann"}},
		{"/nowhere", []string{"after redirects: /home"}},
		{"/home(aux:help)", []string{"aux Help"}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			out, err := run(t, "--config", config, "resolve", tt.url)
			if err != nil {
				t.Fatalf("resolve error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	config := initProject(t)

	out, err := run(t, "--config", config, "navigate", "--events", "/team/1", "/team/2/user/bob")
	if err != nil {
		t.Fatalf("navigate error = %v\n%s", err, out)
	}
	for _, want := range []string{
		"NavigationStart(id: 1, url: '/team/1')",
		"NavigationEnd(id: 2",
		"url: /team/2/user/bob",
		"primary User",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNavigateGuards(t *testing.T) {
	dir := t.TempDir()
	routesFile := filepath.Join(dir, "routes.yaml")
	yaml := `routes:
  - path: admin
    component: Admin
    canActivate: [auth]
    resolve:
      user: currentUser
  - path: home
    component: Home
`
	if err := os.WriteFile(routesFile, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "routetree.json")
	if err := os.WriteFile(config, []byte(`{"routes": {"file": "routes.yaml"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", config, "navigate", "--deny", "auth", "/admin")
	if err != nil {
		t.Fatalf("navigate error = %v", err)
	}
	if !strings.Contains(out, "/admin: navigation cancelled") || !strings.Contains(out, "url: /\n") {
		t.Errorf("denied navigation should leave the url at /:\n%s", out)
	}

	out, err = run(t, "--config", config, "navigate", "/admin")
	if err != nil {
		t.Fatalf("navigate error = %v", err)
	}
	if !strings.Contains(out, "url: /admin") {
		t.Errorf("allowed navigation:\n%s", out)
	}

	out, err = run(t, "--config", config, "navigate", "/missing")
	if err == nil {
		t.Fatal("unmatched navigation should fail")
	}
	if !strings.Contains(out, "R100") {
		t.Errorf("output does not report R100:\n%s", out)
	}
}

func TestRoutesFlag(t *testing.T) {
	config := initProject(t)
	other := filepath.Join(t.TempDir(), "other.json")
	if err := os.WriteFile(other, []byte(`[{"path": "only", "component": "Only"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--config", config, "--routes", other, "resolve", "/only")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	if !strings.Contains(out, "primary Only") {
		t.Errorf("output:\n%s", out)
	}

	_, err = run(t, "--config", config, "--routes", filepath.Join(t.TempDir(), "gone.json"), "resolve", "/")
	if errors.Code(err) != "R106" {
		t.Errorf("missing routes file: code = %q, want R106", errors.Code(err))
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != version+"\n" {
		t.Errorf("version --short = %q, want %q", out, version+"\n")
	}
}
