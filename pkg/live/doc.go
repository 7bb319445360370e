// Package live serves bound templates over HTTP and pushes re-renders to
// connected browsers over WebSocket.
//
// A page is a function producing a template; the server binds it once per
// socket and streams the serialized subtree whenever any bound store
// changes. Rendering is instrumented with Prometheus metrics and
// OpenTelemetry spans.
//
// # Quick Start
//
//	srv := live.New(nil)
//	srv.Handle("counter", func(r *http.Request) *loom.Template {
//	    count := store.New(0)
//	    return loom.Tpl([]string{"<p>", "</p>"}, count)
//	})
//	srv.Start(context.Background())
package live
