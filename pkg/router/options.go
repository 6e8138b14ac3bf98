package router

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/routetree/pkg/guard"
	"github.com/vango-dev/routetree/pkg/routes"
)

// Option configures a Router.
type Option func(*Router)

// WithLoader sets the loader for deferred child configurations. Loaded
// configurations are cached by key so their routes keep their identity
// across navigations.
func WithLoader(loader routes.Loader) Option {
	return func(r *Router) {
		r.loader = loader
	}
}

// WithLoaderCacheSize sets how many loaded configurations are kept
// (default: routes.DefaultCacheSize).
func WithLoaderCacheSize(size int) Option {
	return func(r *Router) {
		r.loaderCacheSize = size
	}
}

// WithRegistry sets the registry guards and resolvers are looked up in.
func WithRegistry(registry *guard.Registry) Option {
	return func(r *Router) {
		r.registry = registry
	}
}

// WithPlacement sets where activated routes are placed (default: a new
// OutletMap).
func WithPlacement(p Placement) Option {
	return func(r *Router) {
		r.placement = p
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(opts ...MetricsOption) Option {
	return func(r *Router) {
		config := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&config)
		}
		r.metrics = metricsFor(config)
	}
}

// WithTracer sets the tracer navigation spans are started with (default:
// the global provider's "routetree" tracer).
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Router) {
		r.tracer = tracer
	}
}

// WithRootComponent sets the component of the root route.
func WithRootComponent(name string) Option {
	return func(r *Router) {
		r.rootComponent = name
	}
}
