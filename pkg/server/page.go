package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ssr"
)

// Page is a routable composable.
type Page struct {
	// Path is the chi route pattern, e.g. "/todos/{list}".
	Path string
	// Name labels metrics and cache keys. Defaults to Path.
	Name string
	// Root is the page body.
	Root compose.Composable
	// SEO is the page's document metadata.
	SEO ssr.SEOMetadata
	// Head holds extra head fragments written before any collected during
	// composition.
	Head []string
	// State returns the initial state for a request. Values are restored
	// into rememberSaveable slots with matching keys and hydrated to the
	// client.
	State func(r *http.Request) map[string]any
	// Cache renders the page through the server's render cache, if any.
	// Entries are keyed by path, query and initial state; cached pages must
	// not depend on other request data such as headers or cookies.
	Cache bool
}

func (p *Page) name() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Path
}

// LocalRequest provides the HTTP request that started the composition. In a
// live session it is the websocket upgrade request.
var LocalRequest = compose.LocalOf[*http.Request]("server.LocalRequest", nil)

// Request returns the current request, or nil outside a served page.
func Request(c *compose.Composer) *http.Request {
	return LocalRequest.Current(c)
}

// Param returns the named route parameter of the current request.
func Param(c *compose.Composer, name string) string {
	r := Request(c)
	if r == nil {
		return ""
	}
	return chi.URLParam(r, name)
}
