// Package errors provides structured, coded errors for the routing engine.
//
// Every fatal condition the engine can report has a stable code:
//
//	R001-R019  URL parsing and navigation commands
//	R100-R119  matching, redirects, configuration, guards
//	R120-R139  command line configuration
//
// Errors are built from the registry and refined with builder methods:
//
//	err := errors.New("R100").
//	    WithSubject("team/33").
//	    WithSuggestion("Add a route for 'team/:id' or a '**' fallback")
//
// Sentinel values support errors.Is matching by code:
//
//	if errors.Is(err, errors.ErrCannotMatch) {
//	    // ...
//	}
//
// Format renders a colored report for terminal output; FormatJSON renders
// the same information for HTTP responses.
package errors
