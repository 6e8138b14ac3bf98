// Package inspect exposes a router over HTTP for debugging: URL parsing,
// dry-run resolution, navigation, the live state, a WebSocket stream of
// navigation events and the router's Prometheus metrics.
//
//	insp := inspect.New(r, inspect.WithGatherer(registry))
//	defer insp.Close()
//	http.ListenAndServe("localhost:7070", insp.Handler())
package inspect
