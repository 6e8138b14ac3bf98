// Package routes defines route configuration: the Route entry, its eager
// validation, identity keys and the loaders for deferred child
// configuration.
//
// A configuration is an ordered list of routes:
//
//	config := routes.Routes{
//	    {Path: "", RedirectTo: routes.Redirect("inbox"), PathMatch: routes.PathMatchFull},
//	    {Path: "inbox", Component: "Inbox", Children: routes.Routes{
//	        {Path: ":id", Component: "Message"},
//	    }},
//	    {Path: "admin", LoadChildren: "admin"},
//	    {Path: "**", Component: "NotFound"},
//	}
//	if err := routes.Prepare(config); err != nil {
//	    return err
//	}
//
// Prepare validates the configuration and gives every route a stable key.
// The engine decides whether a live route can be reused by comparing keys,
// never route contents.
//
// Deferred children are fetched through a Loader. MapLoader, FileLoader and
// S3Loader are the provided sources; CachingLoader keeps results across
// navigations. Within a single resolution pass, LoadCache guarantees each
// deferred route is loaded once.
package routes
