// Package state holds router state: immutable snapshots of what a URL
// matched, and the live, observable routes that outlive navigations.
//
// A RouterStateSnapshot is produced for every navigation. CreateRouterState
// turns it into a RouterState, reusing the ActivatedRoute of every route
// config that is still matched in the same outlet, so observers of a reused
// route keep their subscriptions:
//
//	next := state.CreateRouterState(snapshot, current)
//	// guards and resolvers run against next
//	state.Advance(next)
//
// Advance pushes a route's URL, params and data only when they changed.
package state
