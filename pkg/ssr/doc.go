// Package ssr renders composables into complete HTML documents.
//
// A render creates a fresh composition bound to its own HTMLRenderer and
// RenderContext, runs the root composable exactly once, and assembles the
// document from the body markup, the collected head elements and the SEO
// metadata. When hydration is enabled the initial state is embedded as
//
//	<script>window.__SUMMON_INITIAL_STATE__ = {...};</script>
//
// so the client can reconcile against exactly the markup it received.
//
// Renders share no mutable state, so one Renderer can serve concurrent
// requests:
//
//	r := ssr.NewRenderer(ssr.WithLogger(logger))
//	res, err := r.Render(ctx, &ssr.RenderContext{
//	    Hydrate: true,
//	    SEO:     ssr.SEOMetadata{Title: "Home"},
//	}, app.Home)
//
// Given the same composable tree and the same initial state, two renders
// produce byte-identical documents.
package ssr
