package inspect

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/routetree/pkg/router"
	"github.com/vango-dev/routetree/pkg/routes"
)

func newInspector(t *testing.T) (*Inspector, *router.Router, *prometheus.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	r, err := router.New(routes.Routes{
		{Path: "team/:id", Component: "Team", Children: routes.Routes{
			{Path: "user/:name", Component: "User"},
		}},
		{Path: "old", RedirectTo: routes.Redirect("/team/1/user/ann")},
	}, router.WithLogger(logger), router.WithRootComponent("App"), router.WithMetrics(router.WithMetricsRegistry(reg)))
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	insp := New(r, WithGatherer(reg), WithLogger(logger))
	t.Cleanup(insp.Close)
	return insp, r, reg
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, out
}

func TestParse(t *testing.T) {
	insp, _, _ := newInspector(t)
	h := insp.Handler()

	rec, body := do(t, h, http.MethodGet, "/parse?url="+url.QueryEscape("/a;p=1(aux:b)?q=2"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["url"] != "/a;p=1(aux:b)?q=2" {
		t.Errorf("url = %v", body["url"])
	}
	root := body["root"].(map[string]any)
	children := root["children"].(map[string]any)
	if _, ok := children["aux"]; !ok {
		t.Errorf("children = %v, want aux", children)
	}

	rec, body = do(t, h, http.MethodGet, "/parse?url="+url.QueryEscape("/a("), "")
	if rec.Code != http.StatusBadRequest || body["code"] != "R001" {
		t.Errorf("malformed: status = %d, body = %v", rec.Code, body)
	}

	rec, _ = do(t, h, http.MethodGet, "/parse", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url: status = %d, want 400", rec.Code)
	}
}

func TestResolve(t *testing.T) {
	insp, r, _ := newInspector(t)
	h := insp.Handler()

	rec, body := do(t, h, http.MethodGet, "/resolve?url=/old", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["urlAfterRedirects"] != "/team/1/user/ann" {
		t.Errorf("urlAfterRedirects = %v, want /team/1/user/ann", body["urlAfterRedirects"])
	}
	state := body["state"].(map[string]any)
	if state["component"] != "App" {
		t.Errorf("root component = %v, want App", state["component"])
	}
	if r.URL() != "/" {
		t.Errorf("router URL = %q, resolve should not navigate", r.URL())
	}

	rec, body = do(t, h, http.MethodGet, "/resolve?url=/nowhere", "")
	if rec.Code != http.StatusNotFound || body["code"] != "R100" {
		t.Errorf("no match: status = %d, body = %v", rec.Code, body)
	}
}

func TestNavigateAndState(t *testing.T) {
	insp, _, _ := newInspector(t)
	h := insp.Handler()

	rec, body := do(t, h, http.MethodPost, "/navigate", `{"url": "/team/7/user/bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["navigated"] != true || body["url"] != "/team/7/user/bob" {
		t.Errorf("navigate = %v", body)
	}

	rec, body = do(t, h, http.MethodGet, "/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	team := body["state"].(map[string]any)["children"].([]any)[0].(map[string]any)
	if team["component"] != "Team" || team["url"] != "team/7" {
		t.Errorf("team = %v", team)
	}
	user := team["children"].([]any)[0].(map[string]any)
	if user["params"].(map[string]any)["name"] != "bob" {
		t.Errorf("user = %v", user)
	}

	rec, body = do(t, h, http.MethodPost, "/navigate", `{"url": "/nowhere"}`)
	if rec.Code != http.StatusNotFound || body["navigated"] != false || body["code"] != "R100" {
		t.Errorf("failed navigation: status = %d, body = %v", rec.Code, body)
	}

	for _, bad := range []string{`{}`, `not json`} {
		if rec, _ := do(t, h, http.MethodPost, "/navigate", bad); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	insp, _, _ := newInspector(t)
	h := insp.Handler()
	do(t, h, http.MethodPost, "/navigate", `{"url": "/team/1/user/ann"}`)

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `routetree_navigations_total{outcome="end"} 1`) {
		t.Errorf("metrics missing navigation count:\n%s", rec.Body.String())
	}
}

func TestEventsStream(t *testing.T) {
	insp, _, _ := newInspector(t)
	srv := httptest.NewServer(insp.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello helloMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "hello" || hello.Client == "" {
		t.Fatalf("hello = %+v", hello)
	}

	resp, err := http.Post(srv.URL+"/navigate", "application/json", strings.NewReader(`{"url": "/old"}`))
	if err != nil {
		t.Fatalf("POST /navigate: %v", err)
	}
	resp.Body.Close()

	var types []string
	for len(types) < 3 {
		var ev struct {
			Type              string `json:"type"`
			URL               string `json:"url"`
			URLAfterRedirects string `json:"urlAfterRedirects"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		types = append(types, ev.Type)
		if ev.Type == "NavigationEnd" && ev.URLAfterRedirects != "/team/1/user/ann" {
			t.Errorf("NavigationEnd urlAfterRedirects = %q", ev.URLAfterRedirects)
		}
	}
	if got := strings.Join(types, ","); got != "NavigationStart,RoutesRecognized,NavigationEnd" {
		t.Errorf("events = %s", got)
	}
	if insp.Hub().ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", insp.Hub().ClientCount())
	}
}
