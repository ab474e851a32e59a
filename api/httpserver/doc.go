// Package httpserver provides the reusable HTTP server shell the canvas
// gateway runs inside.
//
// It wires a chi router with standard middleware, request logging, CORS for
// browser clients, the operational endpoints (/livez, /readyz, /drain,
// /undrain), optional pprof, and graceful shutdown with a drain window for
// load balancers. Components implement RouteRegistrar to contribute their
// own routes:
//
//	srv, err := httpserver.New(cfg, gateway)
//	if err != nil { ... }
//	srv.RunInBackground()
//	defer srv.Shutdown()
package httpserver
