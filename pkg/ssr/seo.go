package ssr

import (
	"strings"

	"github.com/summon-dev/summon/pkg/render"
)

// SEOMetadata describes the document for search engines and link previews.
type SEOMetadata struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	Robots      string
	OpenGraph   OpenGraph
	Twitter     TwitterCard
	Custom      []render.MetaTag
}

// OpenGraph holds og:* properties. Title and Description fall back to the
// document's when unset and any other property is present.
type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	Image       string
	SiteName    string
}

func (og OpenGraph) isZero() bool {
	return og == OpenGraph{}
}

// TwitterCard holds twitter:* properties.
type TwitterCard struct {
	Card        string
	Site        string
	Creator     string
	Title       string
	Description string
	Image       string
}

func (tc TwitterCard) isZero() bool {
	return tc == TwitterCard{}
}

// Tags returns the head fragments for m in a fixed order: title,
// description, keywords, robots, canonical, Open Graph, Twitter, custom.
func (m SEOMetadata) Tags() []string {
	var tags []string
	add := func(s string) { tags = append(tags, s) }
	meta := func(name, content string) {
		if content != "" {
			add(render.MetaTag{Name: name, Content: content}.HTML())
		}
	}
	property := func(name, content string) {
		if content != "" {
			add(render.MetaTag{Property: name, Content: content}.HTML())
		}
	}

	if m.Title != "" {
		add(render.TitleTag(m.Title))
	}
	meta("description", m.Description)
	meta("keywords", strings.Join(m.Keywords, ", "))
	meta("robots", m.Robots)
	if m.Canonical != "" {
		add(render.LinkTag{Rel: "canonical", Href: m.Canonical}.HTML())
	}

	if og := m.OpenGraph; !og.isZero() {
		property("og:title", fallback(og.Title, m.Title))
		property("og:description", fallback(og.Description, m.Description))
		property("og:type", og.Type)
		property("og:url", fallback(og.URL, m.Canonical))
		property("og:image", og.Image)
		property("og:site_name", og.SiteName)
	}

	if tc := m.Twitter; !tc.isZero() {
		meta("twitter:card", fallback(tc.Card, "summary"))
		meta("twitter:site", tc.Site)
		meta("twitter:creator", tc.Creator)
		meta("twitter:title", fallback(tc.Title, m.Title))
		meta("twitter:description", fallback(tc.Description, m.Description))
		meta("twitter:image", tc.Image)
	}

	for _, custom := range m.Custom {
		add(custom.HTML())
	}
	return tags
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
