package render

import (
	"strings"

	"github.com/summon-dev/summon/pkg/vdom"
)

// Modifier carries presentation attributes for one element. It is an
// immutable value: every builder method returns a new Modifier and the zero
// value is empty.
//
//	m := render.Modifier{}.Class("card").Style("padding", "8px").Aria("label", "Profile")
type Modifier struct {
	classes []string
	styles  []styleDecl
	attrs   []attrDecl
}

type styleDecl struct {
	prop, value string
}

type attrDecl struct {
	name  string
	value any
}

// Class appends CSS class names.
func (m Modifier) Class(names ...string) Modifier {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			m.classes = append(m.classes[:len(m.classes):len(m.classes)], n)
		}
	}
	return m
}

// Style appends an inline style declaration. Declarations keep call order.
func (m Modifier) Style(prop, value string) Modifier {
	m.styles = append(m.styles[:len(m.styles):len(m.styles)], styleDecl{prop: prop, value: value})
	return m
}

// Attr sets an attribute. A later Attr with the same name wins.
func (m Modifier) Attr(name, value string) Modifier {
	return m.attr(name, value)
}

// Flag sets a boolean attribute such as disabled or required.
func (m Modifier) Flag(name string, on bool) Modifier {
	return m.attr(name, on)
}

// ID sets the id attribute.
func (m Modifier) ID(id string) Modifier {
	return m.attr("id", id)
}

// Data sets a data-* attribute.
func (m Modifier) Data(key, value string) Modifier {
	return m.attr("data-"+key, value)
}

// Aria sets an aria-* attribute.
func (m Modifier) Aria(key, value string) Modifier {
	return m.attr("aria-"+key, value)
}

// Then returns m followed by other.
func (m Modifier) Then(other Modifier) Modifier {
	m.classes = append(m.classes[:len(m.classes):len(m.classes)], other.classes...)
	m.styles = append(m.styles[:len(m.styles):len(m.styles)], other.styles...)
	m.attrs = append(m.attrs[:len(m.attrs):len(m.attrs)], other.attrs...)
	return m
}

// IsEmpty reports whether m carries nothing.
func (m Modifier) IsEmpty() bool {
	return len(m.classes) == 0 && len(m.styles) == 0 && len(m.attrs) == 0
}

func (m Modifier) attr(name string, value any) Modifier {
	m.attrs = append(m.attrs[:len(m.attrs):len(m.attrs)], attrDecl{name: name, value: value})
	return m
}

// applyTo writes the modifier into props. base is the renderer's own style
// for the element and precedes the modifier's declarations.
func (m Modifier) applyTo(props vdom.Props, base string) {
	for _, a := range m.attrs {
		switch a.name {
		case "class", "style":
			// Owned by Class and Style.
		default:
			props[a.name] = a.value
		}
	}
	if len(m.classes) > 0 {
		props["class"] = strings.Join(m.classes, " ")
	}

	var style strings.Builder
	style.WriteString(base)
	for _, s := range m.styles {
		if style.Len() > 0 {
			style.WriteByte(';')
		}
		style.WriteString(s.prop)
		style.WriteByte(':')
		style.WriteString(s.value)
	}
	if style.Len() > 0 {
		props["style"] = style.String()
	}
}
