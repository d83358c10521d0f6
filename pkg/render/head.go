package render

import (
	"fmt"
	"strings"
	"sync"
)

// HeadCollector accumulates fragments for the document head in insertion
// order. Adding a fragment that is already present is a no-op, so content
// that recomposes does not duplicate its head elements.
type HeadCollector struct {
	mu       sync.Mutex
	elements []string
	seen     map[string]bool
}

// NewHeadCollector creates an empty collector.
func NewHeadCollector() *HeadCollector {
	return &HeadCollector{seen: make(map[string]bool)}
}

// Add appends fragment.
func (h *HeadCollector) Add(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fragment == "" || h.seen[fragment] {
		return
	}
	h.seen[fragment] = true
	h.elements = append(h.elements, fragment)
}

// Elements returns a copy of the fragments in insertion order.
func (h *HeadCollector) Elements() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.elements))
	copy(out, h.elements)
	return out
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
	Content   string // content attribute
}

// HTML returns the element's markup.
func (m MetaTag) HTML() string {
	var b strings.Builder
	b.WriteString("<meta")
	writeAttr(&b, "charset", m.Charset)
	writeAttr(&b, "name", m.Name)
	writeAttr(&b, "property", m.Property)
	writeAttr(&b, "http-equiv", m.HTTPEquiv)
	if m.Charset == "" {
		fmt.Fprintf(&b, ` content="%s"`, EscapeAttr(m.Content))
	}
	b.WriteString(">")
	return b.String()
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string // rel attribute
	Href        string // href attribute
	Type        string // type attribute
	Sizes       string // sizes attribute
	CrossOrigin string // crossorigin attribute
	Media       string // media attribute
}

// HTML returns the element's markup.
func (l LinkTag) HTML() string {
	var b strings.Builder
	b.WriteString("<link")
	writeAttr(&b, "rel", l.Rel)
	writeAttr(&b, "href", l.Href)
	writeAttr(&b, "type", l.Type)
	writeAttr(&b, "sizes", l.Sizes)
	writeAttr(&b, "crossorigin", l.CrossOrigin)
	writeAttr(&b, "media", l.Media)
	b.WriteString(">")
	return b.String()
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content, written verbatim
}

// HTML returns the element's markup.
func (s ScriptTag) HTML() string {
	var b strings.Builder
	b.WriteString("<script")
	writeAttr(&b, "src", s.Src)
	if s.Module {
		b.WriteString(` type="module"`)
	} else {
		writeAttr(&b, "type", s.Type)
	}
	if s.Defer {
		b.WriteString(" defer")
	}
	if s.Async {
		b.WriteString(" async")
	}
	b.WriteString(">")
	b.WriteString(s.Inline)
	b.WriteString("</script>")
	return b.String()
}

// TitleTag returns a title element with escaped text.
func TitleTag(title string) string {
	return "<title>" + EscapeText(title) + "</title>"
}

func writeAttr(b *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(b, ` %s="%s"`, name, EscapeAttr(value))
	}
}
