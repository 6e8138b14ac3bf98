package guard

import (
	"context"

	"github.com/vango-dev/routetree/pkg/state"
)

// CanActivate decides whether a route may be activated.
type CanActivate interface {
	CanActivate(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (bool, error)
}

// CanActivateFunc is a function that implements CanActivate.
type CanActivateFunc func(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (bool, error)

// CanActivate implements CanActivate.
func (f CanActivateFunc) CanActivate(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (bool, error) {
	return f(ctx, future, futureState)
}

// CanDeactivate decides whether the component placed for a route may be
// torn down.
type CanDeactivate interface {
	CanDeactivate(ctx context.Context, component any, current *state.ActivatedRouteSnapshot, currentState *state.RouterStateSnapshot) (bool, error)
}

// CanDeactivateFunc is a function that implements CanDeactivate.
type CanDeactivateFunc func(ctx context.Context, component any, current *state.ActivatedRouteSnapshot, currentState *state.RouterStateSnapshot) (bool, error)

// CanDeactivate implements CanDeactivate.
func (f CanDeactivateFunc) CanDeactivate(ctx context.Context, component any, current *state.ActivatedRouteSnapshot, currentState *state.RouterStateSnapshot) (bool, error) {
	return f(ctx, component, current, currentState)
}

// Resolver computes a value a route needs before it is activated. The value
// is stored in the route's data under the key the resolver is registered
// for in the route config.
type Resolver interface {
	Resolve(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (any, error)
}

// ResolverFunc is a function that implements Resolver.
type ResolverFunc func(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (any, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, future *state.ActivatedRouteSnapshot, futureState *state.RouterStateSnapshot) (any, error) {
	return f(ctx, future, futureState)
}

// ComponentLookup returns the component currently placed for a live route,
// or nil.
type ComponentLookup func(route *state.ActivatedRoute) any
