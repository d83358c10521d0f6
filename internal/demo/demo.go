// Package demo holds the example pages served by `summon serve` and
// rendered by `summon render`.
package demo

import (
	"net/http"
	"strconv"

	"github.com/summon-dev/summon/pkg/server"
	"github.com/summon-dev/summon/pkg/ssr"
)

// Pages returns the demo pages in navigation order.
func Pages() []server.Page {
	return []server.Page{
		{
			Path:  "/",
			Name:  "counter",
			Root:  Counter,
			State: countFromQuery,
			SEO: ssr.SEOMetadata{
				Title:       "Counter",
				Description: "A saveable counter rendered on the server and hydrated on the client.",
			},
		},
		{
			Path: "/todos",
			Name: "todos",
			Root: Todos,
			SEO:  ssr.SEOMetadata{Title: "Todos"},
		},
		{
			Path: "/theme",
			Name: "theme",
			Root: Themed,
			SEO:  ssr.SEOMetadata{Title: "Theme"},
		},
		{
			Path: "/clock",
			Name: "clock",
			Root: Clock,
			SEO:  ssr.SEOMetadata{Title: "Clock", Robots: "noindex"},
		},
		{
			Path:  "/about",
			Name:  "about",
			Root:  About,
			Cache: true,
			SEO: ssr.SEOMetadata{
				Title:       "About summon",
				Description: "Composable UI with server-side rendering.",
				Keywords:    []string{"go", "ssr", "composition"},
				Canonical:   "https://summon.dev/about",
				OpenGraph:   ssr.OpenGraph{Type: "website", SiteName: "summon"},
			},
		},
		{
			Path:  "/hello/{name}",
			Name:  "hello",
			Root:  Hello,
			Cache: true,
		},
	}
}

// Find returns the page registered at path.
func Find(path string) (server.Page, bool) {
	for _, p := range Pages() {
		if p.Path == path || p.Name == path {
			return p, true
		}
	}
	return server.Page{}, false
}

// countFromQuery seeds the counter from ?count=N.
func countFromQuery(r *http.Request) map[string]any {
	n, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		return nil
	}
	return map[string]any{CountKey: n}
}
