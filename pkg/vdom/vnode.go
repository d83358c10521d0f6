package vdom

import (
	"sort"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (not escaped)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is one node of the element tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Identity key, not rendered
	Text     string   // Text for KindText and KindRaw; leading content for KindElement
	HID      string   // Hydration ID (assigned before serialisation)
}

// Props holds attributes and event handlers. Event handlers are stored
// under "on"+event keys, e.g. "onclick".
type Props map[string]any

// Element creates an element node.
func Element(tag string, props Props, children ...*VNode) *VNode {
	if props == nil {
		props = Props{}
	}
	return &VNode{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

// Text creates a text node. Its content is escaped when serialised.
func Text(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// Raw creates a node whose content is written verbatim.
func Raw(html string) *VNode {
	return &VNode{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	return &VNode{Kind: KindFragment, Children: children}
}

// Clone returns a copy of v with its own Props map and an empty child
// list. HIDs are not copied.
func (v *VNode) Clone() *VNode {
	if v == nil {
		return nil
	}
	c := &VNode{Kind: v.Kind, Tag: v.Tag, Key: v.Key, Text: v.Text}
	if v.Props != nil {
		c.Props = make(Props, len(v.Props))
		for k, val := range v.Props {
			c.Props[k] = val
		}
	}
	return c
}

// On registers handler for the named event ("click", "input", ...).
func (v *VNode) On(event string, handler any) *VNode {
	if v.Props == nil {
		v.Props = Props{}
	}
	v.Props["on"+event] = handler
	return v
}

// IsInteractive returns true if this node has event handlers and needs a HID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key, value := range v.Props {
		if strings.HasPrefix(key, "on") && IsHandler(value) {
			return true
		}
	}
	return false
}

// Events returns the names of the node's event handlers, sorted.
func (v *VNode) Events() []string {
	var events []string
	for key, value := range v.Props {
		if strings.HasPrefix(key, "on") && IsHandler(value) {
			events = append(events, key[2:])
		}
	}
	sort.Strings(events)
	return events
}

// IsHandler reports whether value can be called as an event handler.
func IsHandler(value any) bool {
	switch value.(type) {
	case func(), func(string), EventHandler:
		return true
	default:
		return false
	}
}

// EventHandler is a handler that receives the event payload sent by the
// client (an input value, a form's field values, ...).
type EventHandler func(Event)

// Event is a client event delivered to a handler.
type Event struct {
	Type   string
	Value  string
	Fields map[string]string
}

// Invoke calls handler with ev, adapting to the handler's signature.
// It reports false if handler is not callable.
func Invoke(handler any, ev Event) bool {
	switch h := handler.(type) {
	case func():
		h()
	case func(string):
		h(ev.Value)
	case EventHandler:
		h(ev)
	default:
		return false
	}
	return true
}
