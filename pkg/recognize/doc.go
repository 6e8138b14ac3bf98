// Package recognize builds the router state snapshot for a URL tree whose
// redirects have already been expanded.
//
// Matching walks the tree the same way redirect expansion does. Every
// matched route becomes an ActivatedRouteSnapshot holding the segments it
// consumed, its params and its static data. A route with a component is the
// inheritance root for the routes below it; a route without one passes on
// everything it inherited.
package recognize
