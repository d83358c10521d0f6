// Package server serves composable pages over HTTP.
//
// Each registered Page is mounted on a chi router. A plain GET renders the
// page through the SSR pipeline, optionally through a render cache with
// ETag revalidation. When live mode is enabled, a websocket upgrade on the
// same route starts a live session: the page is composed in client mode on
// the server, client events are dispatched to the handlers named by the
// rendered data-hid attributes, and the updated body markup is pushed back
// after every recomposition.
//
//	srv := server.New(server.Config{Address: ":3000", Live: true, Hydrate: true})
//	srv.Handle(server.Page{Path: "/", Name: "home", Root: Home})
//	if err := srv.ListenAndServe(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
