package ui

import (
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
	"github.com/summon-dev/summon/pkg/ssr"
)

// Title sets the document title. During a server render it replaces the
// SEO title; elsewhere a title element is added to the head.
func Title(c *compose.Composer, title string) {
	if seo := ssr.SEO(c); seo != nil {
		seo.Title = title
		return
	}
	render.Current(c).AddHeadElement(render.TitleTag(title))
}

// Meta adds a named meta element to the head.
func Meta(c *compose.Composer, name, content string) {
	render.Current(c).AddHeadElement(render.MetaTag{Name: name, Content: content}.HTML())
}

// Stylesheet links a stylesheet from the head.
func Stylesheet(c *compose.Composer, href string) {
	render.Current(c).AddHeadElement(render.LinkTag{Rel: "stylesheet", Href: href}.HTML())
}

// Script adds a deferred script to the head.
func Script(c *compose.Composer, src string) {
	render.Current(c).AddHeadElement(render.ScriptTag{Src: src, Defer: true}.HTML())
}
