package main

import (
	"context"
	"slices"

	"github.com/vango-dev/routetree/pkg/guard"
	"github.com/vango-dev/routetree/pkg/routes"
	"github.com/vango-dev/routetree/pkg/state"
)

// stubRegistry registers every guard and resolver id the configuration
// names. Guards allow unless their id is in deny; resolvers resolve to
// their own id.
func stubRegistry(config routes.Routes, deny []string) *guard.Registry {
	registry := guard.NewRegistry()
	var walk func(routes.Routes)
	walk = func(rs routes.Routes) {
		for _, r := range rs {
			for _, id := range r.CanActivate {
				allowed := !slices.Contains(deny, id)
				registry.AddCanActivate(id, guard.CanActivateFunc(func(context.Context, *state.ActivatedRouteSnapshot, *state.RouterStateSnapshot) (bool, error) {
					return allowed, nil
				}))
			}
			for _, id := range r.CanDeactivate {
				allowed := !slices.Contains(deny, id)
				registry.AddCanDeactivate(id, guard.CanDeactivateFunc(func(context.Context, any, *state.ActivatedRouteSnapshot, *state.RouterStateSnapshot) (bool, error) {
					return allowed, nil
				}))
			}
			for _, id := range r.Resolve {
				registry.AddResolver(id, guard.ResolverFunc(func(context.Context, *state.ActivatedRouteSnapshot, *state.RouterStateSnapshot) (any, error) {
					return id, nil
				}))
			}
			walk(r.Children)
		}
	}
	walk(config)
	return registry
}
