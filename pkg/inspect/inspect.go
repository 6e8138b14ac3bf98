package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/router"
	"github.com/vango-dev/routetree/pkg/urltree"
)

const maxRequestBodySize = 1 << 16

// Inspector serves a router's state over HTTP and streams its navigation
// events to WebSocket clients.
type Inspector struct {
	router      *router.Router
	hub         *Hub
	gatherer    prometheus.Gatherer
	logger      *slog.Logger
	unsubscribe func()
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithGatherer sets where /metrics reads from (default:
// prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(i *Inspector) {
		i.gatherer = g
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// New creates an inspector for r and starts forwarding its events.
func New(r *router.Router, opts ...Option) *Inspector {
	i := &Inspector{
		router:   r,
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.hub = NewHub(i.logger)
	i.unsubscribe = r.Subscribe(func(e router.Event) {
		i.hub.Broadcast(e)
	})
	return i
}

// Hub returns the event hub.
func (i *Inspector) Hub() *Hub { return i.hub }

// Close stops forwarding events and disconnects all clients.
func (i *Inspector) Close() {
	i.unsubscribe()
	i.hub.Close()
}

// Handler returns the HTTP handler:
//
//	GET  /parse?url=    parsed URL tree
//	GET  /resolve?url=  URL after redirects and recognized routes, no commit
//	POST /navigate      {"url": "..."} runs a navigation and waits for it
//	GET  /state         current URL and live routes
//	GET  /events        WebSocket stream of navigation events
//	GET  /metrics       Prometheus metrics
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/parse", i.handleParse)
	r.Get("/resolve", i.handleResolve)
	r.Post("/navigate", i.handleNavigate)
	r.Get("/state", i.handleState)
	r.Get("/events", i.hub.HandleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (i *Inspector) handleParse(w http.ResponseWriter, r *http.Request) {
	url, ok := requireURL(w, r)
	if !ok {
		return
	}
	tree, err := urltree.Parse(url)
	if err != nil {
		writeRouteError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, renderTree(tree))
}

type resolveResponse struct {
	URL               string    `json:"url"`
	URLAfterRedirects string    `json:"urlAfterRedirects"`
	Tree              treeJSON  `json:"tree"`
	State             routeJSON `json:"state"`
}

func (i *Inspector) handleResolve(w http.ResponseWriter, r *http.Request) {
	url, ok := requireURL(w, r)
	if !ok {
		return
	}
	res, err := i.router.Resolve(r.Context(), url)
	if err != nil {
		writeRouteError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		URL:               res.URL,
		URLAfterRedirects: res.URLAfterRedirects,
		Tree:              renderTree(res.Tree),
		State:             renderSnapshot(res.State.Root),
	})
}

type navigateRequest struct {
	URL string `json:"url"`
}

type navigateResponse struct {
	ID        uint64 `json:"id"`
	Navigated bool   `json:"navigated"`
	URL       string `json:"url"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
}

func (i *Inspector) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var body navigateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required", "")
		return
	}

	nav := i.router.NavigateByURL(r.Context(), body.URL)
	ok, err := nav.Wait(r.Context())
	resp := navigateResponse{ID: nav.ID(), Navigated: ok, URL: i.router.URL()}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		resp.Code = errors.Code(err)
		status = statusOf(err)
	}
	writeJSON(w, status, resp)
}

type stateResponse struct {
	URL   string    `json:"url"`
	State routeJSON `json:"state"`
}

func (i *Inspector) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		URL:   i.router.URL(),
		State: renderNode(i.router.State().Root),
	})
}

func requireURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required", "")
		return "", false
	}
	return url, true
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeRouteError(w http.ResponseWriter, status int, err error) {
	writeError(w, status, err.Error(), errors.Code(err))
}

// statusOf maps routing errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errors.ErrMalformedURL):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCannotMatch):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrGuardRejected):
		return http.StatusForbidden
	}
	return http.StatusUnprocessableEntity
}
