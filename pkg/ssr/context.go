package ssr

import (
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
)

// RenderContext carries the per-request inputs of a render.
type RenderContext struct {
	// Hydrate embeds the initial state script in the document.
	Hydrate bool

	// SEO decorates the document head.
	SEO SEOMetadata

	// InitialState is serialised for the client and readable during
	// composition through InitialValue. Saveable states with the same key
	// are restored from it.
	InitialState map[string]any

	// Head holds fragments emitted before those collected during the pass.
	Head []string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// BodyID is the id attribute of the body element, if any.
	BodyID string

	// ClientScript is the src of a deferred script appended to the body,
	// if any.
	ClientScript string

	// Locals are provided to the composition alongside the renderer and
	// the render context.
	Locals []compose.Provided
}

// LocalRenderContext exposes the active RenderContext to composables. It
// is nil outside a server render.
var LocalRenderContext = compose.LocalOf[*RenderContext]("ssr.LocalRenderContext", nil)

// Head adds a fragment to the document head.
func Head(c *compose.Composer, fragment string) {
	render.Current(c).AddHeadElement(fragment)
}

// InitialValue returns the initial state entry for key.
func InitialValue(c *compose.Composer, key string) (any, bool) {
	rc := LocalRenderContext.Current(c)
	if rc == nil {
		return nil, false
	}
	v, ok := rc.InitialState[key]
	return v, ok
}

// SEO returns the metadata of the document being rendered, or nil outside
// a server render. Composables may adjust it during the pass.
func SEO(c *compose.Composer) *SEOMetadata {
	rc := LocalRenderContext.Current(c)
	if rc == nil {
		return nil
	}
	return &rc.SEO
}

// clone returns the copy a single render works on, so composables that
// adjust SEO do not leak into the caller's context.
func (rc *RenderContext) clone() *RenderContext {
	if rc == nil {
		return &RenderContext{}
	}
	cp := *rc
	return &cp
}

func (rc *RenderContext) lang() string {
	if rc.Lang == "" {
		return "en"
	}
	return rc.Lang
}
