package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/summon-dev/summon/pkg/vdom"
)

// SerializerConfig configures HTML serialisation.
type SerializerConfig struct {
	// Pretty enables indented output. Development only: it changes the
	// bytes of the document.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Serializer writes element trees as HTML. HIDs are assigned per call, so
// serialising the same tree twice yields the same bytes.
type Serializer struct {
	config   SerializerConfig
	hids     *vdom.HIDGenerator
	handlers map[string]any
}

// NewSerializer creates a Serializer with the given configuration.
func NewSerializer(config SerializerConfig) *Serializer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Serializer{
		config:   config,
		hids:     vdom.NewHIDGenerator(),
		handlers: make(map[string]any),
	}
}

// Serialize writes nodes to w. Interactive elements are numbered across all
// nodes in document order.
func (s *Serializer) Serialize(w io.Writer, nodes ...*vdom.VNode) error {
	s.hids.Reset()
	s.handlers = make(map[string]any)
	for _, n := range nodes {
		vdom.AssignHIDs(n, s.hids)
		for k, h := range vdom.CollectHandlers(n) {
			s.handlers[k] = h
		}
	}
	for _, n := range nodes {
		if err := s.writeNode(w, n, 0); err != nil {
			return err
		}
	}
	return nil
}

// SerializeToString is Serialize into a string.
func (s *Serializer) SerializeToString(nodes ...*vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := s.Serialize(&buf, nodes...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Handlers returns the handler registry of the last Serialize call. Keys
// have the form "hid_onevent" (e.g., "h1_onclick").
func (s *Serializer) Handlers() map[string]any {
	return s.handlers
}

func (s *Serializer) writeNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return s.writeElement(w, node, depth)
	case vdom.KindText:
		_, err := io.WriteString(w, EscapeText(node.Text))
		return err
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := s.writeNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node kind %s", node.Kind)
	}
}

func (s *Serializer) writeElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	if s.config.Pretty && depth > 0 {
		s.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := s.writeAttributes(w, node); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		s.newline(w)
		return nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if node.Text != "" {
		if _, err := io.WriteString(w, EscapeText(node.Text)); err != nil {
			return err
		}
	}

	block := s.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
	if block {
		s.newline(w)
	}
	childDepth := depth + 1
	if !block {
		childDepth = 0
	}
	for _, child := range node.Children {
		if err := s.writeNode(w, child, childDepth); err != nil {
			return err
		}
	}
	if block {
		s.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	s.newline(w)
	return nil
}

// writeAttributes writes attributes in sorted key order, then the HID and
// one data-on-* marker per event handler.
func (s *Serializer) writeAttributes(w io.Writer, node *vdom.VNode) error {
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		// Internal props and handlers are never written as attributes.
		if strings.HasPrefix(key, "_") || key == "key" {
			continue
		}
		if strings.HasPrefix(key, "on") && vdom.IsHandler(value) {
			continue
		}

		if isBooleanAttr(key) {
			if b, ok := value.(bool); ok {
				if b {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if str := attrToString(value); str != "" {
			if _, err := fmt.Fprintf(w, ` %s="%s"`, key, EscapeAttr(str)); err != nil {
				return err
			}
		}
	}

	if node.HID != "" {
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, node.HID); err != nil {
			return err
		}
		for _, event := range node.Events() {
			if _, err := fmt.Fprintf(w, ` data-on-%s="true"`, strings.ToLower(event)); err != nil {
				return err
			}
		}
	}
	return nil
}

// attrToString converts an attribute value to a string.
func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (s *Serializer) newline(w io.Writer) {
	if s.config.Pretty {
		io.WriteString(w, "\n")
	}
}

func (s *Serializer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, s.config.Indent)
	}
}
