package guard

import (
	"context"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/routetree/internal/errors"
	"github.com/vango-dev/routetree/pkg/cell"
	"github.com/vango-dev/routetree/pkg/state"
)

// Kind names what a capability run was for.
type Kind string

const (
	Activate   Kind = "activate"
	Deactivate Kind = "deactivate"
	Resolution Kind = "resolve"
)

// Check is one route whose guards must pass before a navigation commits.
type Check struct {
	Kind Kind

	// Route is the future snapshot for activations and the current
	// snapshot for deactivations.
	Route *state.ActivatedRouteSnapshot

	// Component is the component placed for a deactivated route, or nil.
	Component any
}

// Observer is told about every guard or resolver that ran.
type Observer func(kind Kind, id string, allowed bool, err error)

// errDenied stops the remaining guards once one has returned false.
var errDenied = stderrors.New("guard returned false")

// PreActivation pairs the next router state with the current one and runs
// the guards and resolvers that the difference calls for.
type PreActivation struct {
	future     *state.RouterState
	current    *state.RouterState
	registry   *Registry
	components ComponentLookup
	observe    Observer

	deactivations []Check
	activations   []Check
}

// New creates a PreActivation. current may be nil for the first navigation
// and components may be nil when nothing is placed.
func New(future, current *state.RouterState, registry *Registry, components ComponentLookup) *PreActivation {
	return &PreActivation{
		future:     future,
		current:    current,
		registry:   registry,
		components: components,
	}
}

// WithObserver sets the function told about each capability run.
func (p *PreActivation) WithObserver(fn Observer) *PreActivation {
	p.observe = fn
	return p
}

// Traverse collects the checks. It must run before CheckGuards and
// ResolveData.
func (p *PreActivation) Traverse() {
	p.deactivations = nil
	p.activations = nil
	var curr *state.Node
	if p.current != nil {
		curr = p.current.Root
	}
	p.traverseChildren(p.future.Root, curr)
}

// Checks returns the collected deactivation checks followed by the
// activation checks.
func (p *PreActivation) Checks() []Check {
	out := make([]Check, 0, len(p.deactivations)+len(p.activations))
	out = append(out, p.deactivations...)
	return append(out, p.activations...)
}

// Activations returns the routes that will be activated, parents first.
func (p *PreActivation) Activations() []Check { return p.activations }

// Deactivations returns the routes that will be torn down, children first.
func (p *PreActivation) Deactivations() []Check { return p.deactivations }

func (p *PreActivation) traverseChildren(future, curr *state.Node) {
	prev := make(map[string]*state.Node)
	var order []string
	if curr != nil {
		for _, c := range curr.Children() {
			prev[c.Route.Outlet] = c
			order = append(order, c.Route.Outlet)
		}
	}
	for _, c := range future.Children() {
		p.traverse(c, prev[c.Route.Outlet])
		delete(prev, c.Route.Outlet)
	}
	for _, outlet := range order {
		if c, ok := prev[outlet]; ok {
			p.deactivateSubtree(c)
		}
	}
}

func (p *PreActivation) traverse(future, curr *state.Node) {
	if curr != nil && future.Route == curr.Route {
		next, prev := future.Future, curr.Route.Current()
		if !cell.ShallowEqual(next.Params, prev.Params) {
			p.deactivations = append(p.deactivations, p.deactivation(curr))
			p.activations = append(p.activations, Check{Kind: Activate, Route: next})
		} else {
			next.Resolve().SetResolved(prev.Resolve().Resolved())
		}
		p.traverseChildren(future, curr)
		return
	}
	if curr != nil {
		p.deactivateSubtree(curr)
	}
	p.activations = append(p.activations, Check{Kind: Activate, Route: future.Future})
	p.traverseChildren(future, nil)
}

func (p *PreActivation) deactivateSubtree(n *state.Node) {
	for _, c := range n.Children() {
		p.deactivateSubtree(c)
	}
	p.deactivations = append(p.deactivations, p.deactivation(n))
}

func (p *PreActivation) deactivation(n *state.Node) Check {
	c := Check{Kind: Deactivate, Route: n.Route.Current()}
	if p.components != nil {
		c.Component = p.components(n.Route)
	}
	return c
}

// CheckGuards runs the deactivation guards and then the activation guards.
// Guards of one phase run concurrently; the first one that returns false
// or fails cancels the others. It reports false when a guard denied the
// navigation.
func (p *PreActivation) CheckGuards(ctx context.Context) (bool, error) {
	ok, err := p.all(ctx, len(p.deactivations), func(ctx context.Context, i int) (bool, error) {
		return p.runCanDeactivate(ctx, p.deactivations[i])
	})
	if err != nil || !ok {
		return ok, err
	}
	return p.all(ctx, len(p.activations), func(ctx context.Context, i int) (bool, error) {
		return p.runCanActivate(ctx, p.activations[i])
	})
}

func (p *PreActivation) runCanActivate(ctx context.Context, c Check) (bool, error) {
	if c.Route.RouteConfig == nil {
		return true, nil
	}
	ids := c.Route.RouteConfig.CanActivate
	return p.all(ctx, len(ids), func(ctx context.Context, i int) (bool, error) {
		g, err := p.registry.CanActivate(ids[i])
		if err != nil {
			return false, err
		}
		ok, err := g.CanActivate(ctx, c.Route, p.future.Snapshot)
		p.report(Activate, ids[i], ok, err)
		return ok, wrapGuard(ids[i], err)
	})
}

func (p *PreActivation) runCanDeactivate(ctx context.Context, c Check) (bool, error) {
	if c.Route == nil || c.Route.RouteConfig == nil {
		return true, nil
	}
	ids := c.Route.RouteConfig.CanDeactivate
	var currentState *state.RouterStateSnapshot
	if p.current != nil {
		currentState = p.current.Snapshot
	}
	return p.all(ctx, len(ids), func(ctx context.Context, i int) (bool, error) {
		g, err := p.registry.CanDeactivate(ids[i])
		if err != nil {
			return false, err
		}
		ok, err := g.CanDeactivate(ctx, c.Component, c.Route, currentState)
		p.report(Deactivate, ids[i], ok, err)
		return ok, wrapGuard(ids[i], err)
	})
}

// all runs fn for 0..n-1 concurrently and reports whether every call
// returned true.
func (p *PreActivation) all(ctx context.Context, n int, fn func(context.Context, int) (bool, error)) (bool, error) {
	if n == 0 {
		return true, nil
	}
	eg, ctx := errgroup.WithContext(ctx)
	for i := range n {
		eg.Go(func() error {
			ok, err := fn(ctx, i)
			if err != nil {
				return err
			}
			if !ok {
				return errDenied
			}
			return nil
		})
	}
	err := eg.Wait()
	if stderrors.Is(err, errDenied) {
		return false, nil
	}
	return err == nil, err
}

// ResolveData runs the resolvers of every activated route concurrently.
// When all succeed, the values are stored on the routes and the data of
// every route in the next state is recomputed from the top down.
func (p *PreActivation) ResolveData(ctx context.Context) error {
	results := make([]map[string]any, len(p.activations))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	for i, c := range p.activations {
		results[i] = make(map[string]any)
		for key, id := range c.Route.Resolve().Resolvers() {
			eg.Go(func() error {
				res, err := p.registry.Resolver(id)
				if err != nil {
					return err
				}
				v, err := res.Resolve(ctx, c.Route, p.future.Snapshot)
				p.report(Resolution, id, err == nil, err)
				if err != nil {
					return errors.New("R105").
						WithSubject(id).
						WithDetailf("resolving %q failed", key).
						Wrap(err)
				}
				mu.Lock()
				results[i][key] = v
				mu.Unlock()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, c := range p.activations {
		c.Route.Resolve().SetResolved(results[i])
	}
	p.future.Root.Walk(func(n *state.Node) {
		n.Future.RefreshData()
	})
	return nil
}

func (p *PreActivation) report(kind Kind, id string, allowed bool, err error) {
	if p.observe != nil {
		p.observe(kind, id, allowed, err)
	}
}

func wrapGuard(id string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	return errors.New("R105").WithSubject(id).Wrap(err)
}
