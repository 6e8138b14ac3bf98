package router

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routetree/pkg/guard"
	"github.com/vango-dev/routetree/pkg/recognize"
	"github.com/vango-dev/routetree/pkg/redirect"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// Router turns navigation requests into committed router states.
//
// The current URL tree and the current live state are only written by the
// commit step of a navigation, under the router's lock. Navigations run
// concurrently; one that is no longer the latest scheduled when it reaches
// commit is cancelled.
type Router struct {
	mu     sync.RWMutex
	config routes.Routes
	tree   *urltree.Tree
	state  *state.RouterState

	latest atomic.Uint64
	events events

	loader          routes.Loader
	loaderCacheSize int
	registry        *guard.Registry
	placement       Placement
	logger          *slog.Logger
	metrics         *metrics
	tracer          trace.Tracer
	rootComponent   string
}

// New creates a router for config. The configuration is validated before
// anything else happens; an invalid one returns an R102 error.
func New(config routes.Routes, opts ...Option) (*Router, error) {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.placement == nil {
		r.placement = NewOutletMap()
	}
	if r.tracer == nil {
		r.tracer = defaultTracer()
	}
	if r.loader != nil {
		cached, err := routes.NewCachingLoader(r.loader, r.loaderCacheSize)
		if err != nil {
			return nil, err
		}
		r.loader = cached
	}

	if err := routes.Prepare(config); err != nil {
		return nil, err
	}
	r.config = config
	r.tree = urltree.Empty()
	r.state = state.CreateEmptyState(r.tree, r.rootComponent)
	return r, nil
}

// ResetConfig replaces the route configuration. Navigations already
// running keep the configuration they started with.
func (r *Router) ResetConfig(config routes.Routes) error {
	if err := routes.Prepare(config); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = config
	return nil
}

// Config returns the route configuration.
func (r *Router) Config() routes.Routes {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// URLTree returns the URL tree of the last committed navigation.
func (r *Router) URLTree() *urltree.Tree {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree
}

// URL returns the serialized URL of the last committed navigation.
func (r *Router) URL() string {
	return urltree.Serialize(r.URLTree())
}

// State returns the current live router state.
func (r *Router) State() *state.RouterState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ParseURL parses url into a URL tree.
func (r *Router) ParseURL(url string) (*urltree.Tree, error) {
	return urltree.Parse(url)
}

// SerializeURL renders tree as a URL.
func (r *Router) SerializeURL(tree *urltree.Tree) string {
	return urltree.Serialize(tree)
}

// Subscribe registers fn for navigation events and returns a function that
// removes it. Subscribers are called in the order they subscribed.
func (r *Router) Subscribe(fn func(Event)) (unsubscribe func()) {
	return r.events.subscribe(fn)
}

// CreateURLTree applies navigation commands to the current URL tree.
func (r *Router) CreateURLTree(commands []any, opts ...NavigateOption) (*urltree.Tree, error) {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return urltree.CreateTree(r.URLTree(), o.position(), commands, o.QueryParams, o.Fragment)
}

// Navigate schedules a navigation to the URL tree built by applying
// commands to the current one. Invalid commands are reported before
// anything is scheduled.
func (r *Router) Navigate(ctx context.Context, commands []any, opts ...NavigateOption) (*Navigation, error) {
	tree, err := r.CreateURLTree(commands, opts...)
	if err != nil {
		return nil, err
	}
	return r.NavigateByTree(ctx, tree), nil
}

// NavigateByURL schedules a navigation to url. A malformed url fails the
// navigation with NavigationError.
func (r *Router) NavigateByURL(ctx context.Context, url string) *Navigation {
	tree, err := urltree.Parse(url)
	return r.schedule(ctx, url, tree, err)
}

// NavigateByTree schedules a navigation to tree.
func (r *Router) NavigateByTree(ctx context.Context, tree *urltree.Tree) *Navigation {
	return r.schedule(ctx, urltree.Serialize(tree), tree, nil)
}

func (r *Router) schedule(ctx context.Context, url string, tree *urltree.Tree, parseErr error) *Navigation {
	nav := newNavigation(r.latest.Add(1), url)
	r.metrics.navigationStarted()
	r.logger.Debug("navigation scheduled", "navigation_id", nav.id, "url", url)
	r.events.emit(Event{Type: NavigationStart, ID: nav.id, URL: url})

	go r.run(ctx, nav, tree, parseErr)
	return nav
}

func (r *Router) run(ctx context.Context, nav *Navigation, tree *urltree.Tree, parseErr error) {
	start := time.Now()
	ctx, span := r.startNavigationSpan(ctx, nav.id, nav.url)

	final, err := r.process(ctx, nav, tree, parseErr)
	endSpan(span, err)

	logger := r.logger.With("navigation_id", nav.id, "url", nav.url)
	switch final.Type {
	case NavigationEnd:
		logger.Info("navigation committed", "url_after_redirects", final.URLAfterRedirects, "duration", time.Since(start))
	case NavigationCancel:
		logger.Warn("navigation cancelled", "reason", final.Reason)
	case NavigationError:
		logger.Warn("navigation failed", "error", err)
	}

	r.events.emit(final)
	r.metrics.navigationFinished(final.Type, time.Since(start))
	nav.finish(final.Type == NavigationEnd, err)
}

// process runs the pipeline and returns the event that ends it.
func (r *Router) process(ctx context.Context, nav *Navigation, tree *urltree.Tree, parseErr error) (Event, error) {
	final := Event{ID: nav.id, URL: nav.url}
	if parseErr != nil {
		return r.failed(final, parseErr)
	}
	if r.superseded(nav) {
		return cancelled(final, "superseded"), nil
	}

	r.mu.RLock()
	config, current := r.config, r.state
	r.mu.RUnlock()

	cache := routes.NewLoadCache(r.loader, r.metrics.configLoaded)

	stageCtx, span := r.startStage(ctx, "redirect")
	afterRedirects, err := redirect.Apply(stageCtx, cache, tree, config)
	endSpan(span, err)
	if err != nil {
		return r.failed(final, err)
	}
	urlAfterRedirects := urltree.Serialize(afterRedirects)
	r.logger.Debug("redirects applied", "navigation_id", nav.id, "url_after_redirects", urlAfterRedirects)

	stageCtx, span = r.startStage(ctx, "recognize")
	snapshot, err := recognize.Recognize(stageCtx, cache, afterRedirects, config, urlAfterRedirects, r.rootComponent)
	endSpan(span, err)
	if err != nil {
		return r.failed(final, err)
	}
	r.events.emit(Event{
		Type:              RoutesRecognized,
		ID:                nav.id,
		URL:               nav.url,
		URLAfterRedirects: urlAfterRedirects,
		State:             snapshot,
	})

	future := state.CreateRouterState(snapshot, current)
	checks := guard.New(future, current, r.registry, r.placement.Component).
		WithObserver(r.metrics.guardRan)
	checks.Traverse()

	stageCtx, span = r.startStage(ctx, "guards")
	ok, err := checks.CheckGuards(stageCtx)
	endSpan(span, err)
	if err != nil {
		return r.failed(final, err)
	}
	if !ok {
		return cancelled(final, "guard returned false"), nil
	}

	stageCtx, span = r.startStage(ctx, "resolve")
	err = checks.ResolveData(stageCtx)
	endSpan(span, err)
	if err != nil {
		return r.failed(final, err)
	}

	if !r.commit(nav, afterRedirects, future, current) {
		return cancelled(final, "superseded"), nil
	}
	final.Type = NavigationEnd
	final.URLAfterRedirects = urlAfterRedirects
	return final, nil
}

// commit makes future the current state unless nav has been superseded.
func (r *Router) commit(nav *Navigation, tree *urltree.Tree, future, current *state.RouterState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.superseded(nav) {
		return false
	}
	r.activate(future, current)
	r.tree = tree
	r.state = future
	return true
}

func (r *Router) superseded(nav *Navigation) bool {
	return nav.id != r.latest.Load()
}

// failed ends a navigation with NavigationError, or with NavigationCancel
// when its context was cancelled.
func (r *Router) failed(final Event, err error) (Event, error) {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return cancelled(final, err.Error()), err
	}
	final.Type = NavigationError
	final.Err = err
	return final, err
}

func cancelled(final Event, reason string) Event {
	final.Type = NavigationCancel
	final.Reason = reason
	return final
}

// Resolution is the outcome of a dry run.
type Resolution struct {
	URL               string
	URLAfterRedirects string
	Tree              *urltree.Tree
	State             *state.RouterStateSnapshot
}

// Resolve applies redirects to url and recognizes the result against the
// current configuration without running guards or committing anything.
// No events are emitted.
func (r *Router) Resolve(ctx context.Context, url string) (*Resolution, error) {
	tree, err := urltree.Parse(url)
	if err != nil {
		return nil, err
	}
	config := r.Config()
	cache := routes.NewLoadCache(r.loader, r.metrics.configLoaded)

	afterRedirects, err := redirect.Apply(ctx, cache, tree, config)
	if err != nil {
		return nil, err
	}
	urlAfterRedirects := urltree.Serialize(afterRedirects)
	snapshot, err := recognize.Recognize(ctx, cache, afterRedirects, config, urlAfterRedirects, r.rootComponent)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		URL:               url,
		URLAfterRedirects: urlAfterRedirects,
		Tree:              afterRedirects,
		State:             snapshot,
	}, nil
}
