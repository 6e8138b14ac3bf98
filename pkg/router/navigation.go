package router

import (
	"context"

	"github.com/vango-dev/routetree/pkg/state"
	"github.com/vango-dev/routetree/pkg/urltree"
)

// Navigation is a scheduled navigation.
type Navigation struct {
	id   uint64
	url  string
	done chan struct{}
	ok   bool
	err  error
}

func newNavigation(id uint64, url string) *Navigation {
	return &Navigation{id: id, url: url, done: make(chan struct{})}
}

// ID returns the navigation id. Ids increase in scheduling order.
func (n *Navigation) ID() uint64 { return n.id }

// URL returns the URL the navigation was scheduled for.
func (n *Navigation) URL() string { return n.url }

// Done is closed when the navigation has finished.
func (n *Navigation) Done() <-chan struct{} { return n.done }

// Wait blocks until the navigation finishes or ctx is done. It reports
// whether the navigation committed. A navigation that was superseded or
// denied by a guard reports false with a nil error.
func (n *Navigation) Wait(ctx context.Context) (bool, error) {
	select {
	case <-n.done:
		return n.ok, n.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (n *Navigation) finish(ok bool, err error) {
	n.ok, n.err = ok, err
	close(n.done)
}

// NavigateOptions configures Navigate.
type NavigateOptions struct {
	// RelativeTo is the live route relative commands are applied to.
	// Default: the root.
	RelativeTo *state.ActivatedRoute

	// QueryParams replace the query of the current URL when set.
	QueryParams map[string]string

	// Fragment replaces the fragment of the current URL when set.
	Fragment *string
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// RelativeTo applies relative commands to route.
func RelativeTo(route *state.ActivatedRoute) NavigateOption {
	return func(o *NavigateOptions) {
		o.RelativeTo = route
	}
}

// WithQueryParams sets the query params of the new URL.
func WithQueryParams(params map[string]string) NavigateOption {
	return func(o *NavigateOptions) {
		o.QueryParams = params
	}
}

// WithFragment sets the fragment of the new URL.
func WithFragment(fragment string) NavigateOption {
	return func(o *NavigateOptions) {
		o.Fragment = &fragment
	}
}

func (o NavigateOptions) position() *urltree.Position {
	if o.RelativeTo == nil {
		return nil
	}
	if snap := o.RelativeTo.Current(); snap != nil {
		return snap.Position()
	}
	return nil
}
