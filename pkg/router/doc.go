// Package router runs navigations: it resolves redirects, recognizes the
// resulting URL, reconciles it with the current state, checks guards, runs
// resolvers and commits the new state.
//
// # Usage
//
//	r, err := router.New(config,
//	    router.WithRegistry(guards),
//	    router.WithLoader(routes.FileLoader{FS: os.DirFS("routes")}),
//	)
//	if err != nil {
//	    return err
//	}
//
//	nav := r.NavigateByURL(ctx, "/team/33/user/bob")
//	ok, err := nav.Wait(ctx)
//
// # Events
//
// Each navigation emits NavigationStart when it is scheduled, then
// RoutesRecognized once its URL has been recognized, then exactly one of
// NavigationEnd, NavigationCancel or NavigationError.
//
// # Concurrency
//
// Navigations get increasing ids when they are scheduled and run
// concurrently. Only the latest scheduled navigation may commit; an earlier
// one still runs its guards and resolvers, then reports false without
// touching the current state.
package router
