// Package guard runs the capabilities a navigation needs before it can
// commit: deactivation guards for routes being torn down, activation
// guards for routes being created, and resolvers for the data those routes
// declare.
//
// Route configs refer to capabilities by id. A Registry maps the ids to
// implementations; an id without one fails the navigation.
//
//	reg := guard.NewRegistry().
//	    AddCanActivate("auth", guard.CanActivateFunc(requireLogin)).
//	    AddResolver("user", guard.ResolverFunc(loadUser))
//
//	p := guard.New(next, current, reg, nil)
//	p.Traverse()
//	if ok, err := p.CheckGuards(ctx); err != nil || !ok {
//	    return ok, err
//	}
//	err := p.ResolveData(ctx)
package guard
