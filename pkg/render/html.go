package render

import (
	"log/slog"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/vdom"
)

// HTMLConfig configures an HTMLRenderer.
type HTMLConfig struct {
	SerializerConfig

	// Head receives AddHeadElement fragments. A new collector is created
	// when nil.
	Head *HeadCollector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// HTMLRenderer is the accumulate-markup backend. Elements live in the
// composition's node tree and are serialised by Markup.
type HTMLRenderer struct {
	serializer *Serializer
	head       *HeadCollector
	logger     *slog.Logger
}

var _ PlatformRenderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer(cfg HTMLConfig) *HTMLRenderer {
	if cfg.Head == nil {
		cfg.Head = NewHeadCollector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &HTMLRenderer{
		serializer: NewSerializer(cfg.SerializerConfig),
		head:       cfg.Head,
		logger:     cfg.Logger,
	}
}

type elementKey struct{}

// element opens a node, reuses the element remembered on it when the tag
// matches, resets its props and runs content as its children.
func (r *HTMLRenderer) element(c *compose.Composer, tag string, m Modifier, base string, configure func(*vdom.VNode), content func()) {
	c.StartNode()
	el := remembered(c, tag)
	el.Props = vdom.Props{}
	el.Text = ""
	m.applyTo(el.Props, base)
	if configure != nil {
		configure(el)
	}
	c.EmitNode(el)
	if content != nil {
		content()
	}
	c.EndNode()
}

func remembered(c *compose.Composer, tag string) *vdom.VNode {
	if v, ok := c.RememberedValue(elementKey{}); ok {
		if el, ok := v.(*vdom.VNode); ok && el.Kind == vdom.KindElement && el.Tag == tag {
			return el
		}
	}
	el := vdom.Element(tag, nil)
	c.UpdateRememberedValue(elementKey{}, el)
	return el
}

func (r *HTMLRenderer) RenderText(c *compose.Composer, text string, m Modifier) {
	r.element(c, "span", m, "", func(el *vdom.VNode) { el.Text = text }, nil)
}

func (r *HTMLRenderer) RenderButton(c *compose.Composer, onClick func(), m Modifier, content func()) {
	r.element(c, "button", m, "", func(el *vdom.VNode) {
		el.Props["type"] = "button"
		if onClick != nil {
			el.On("click", onClick)
		}
	}, content)
}

func (r *HTMLRenderer) RenderRow(c *compose.Composer, m Modifier, content func()) {
	r.element(c, "div", m, "display:flex;flex-direction:row", nil, content)
}

func (r *HTMLRenderer) RenderColumn(c *compose.Composer, m Modifier, content func()) {
	r.element(c, "div", m, "display:flex;flex-direction:column", nil, content)
}

func (r *HTMLRenderer) RenderBox(c *compose.Composer, m Modifier, content func()) {
	r.element(c, "div", m, "", nil, content)
}

func (r *HTMLRenderer) RenderTextField(c *compose.Composer, value string, onChange func(string), m Modifier, opts TextFieldOptions) {
	r.element(c, "input", m, "", func(el *vdom.VNode) {
		typ := opts.Type
		if typ == "" {
			typ = "text"
		}
		el.Props["type"] = typ
		el.Props["value"] = value
		if opts.Name != "" {
			el.Props["name"] = opts.Name
		}
		if opts.Placeholder != "" {
			el.Props["placeholder"] = opts.Placeholder
		}
		el.Props["disabled"] = opts.Disabled
		el.Props["readonly"] = opts.ReadOnly
		if onChange != nil {
			el.On("input", onChange)
		}
	}, nil)
}

func (r *HTMLRenderer) RenderForm(c *compose.Composer, onSubmit func(fields map[string]string), m Modifier, content func()) {
	r.element(c, "form", m, "", func(el *vdom.VNode) {
		if onSubmit != nil {
			el.On("submit", vdom.EventHandler(func(ev vdom.Event) { onSubmit(ev.Fields) }))
		}
	}, content)
}

func (r *HTMLRenderer) RenderLink(c *compose.Composer, href string, m Modifier, content func()) {
	r.element(c, "a", m, "", func(el *vdom.VNode) { el.Props["href"] = href }, content)
}

func (r *HTMLRenderer) RenderImage(c *compose.Composer, src, alt string, m Modifier) {
	r.element(c, "img", m, "", func(el *vdom.VNode) {
		el.Props["src"] = src
		el.Props["alt"] = alt
	}, nil)
}

func (r *HTMLRenderer) RenderElement(c *compose.Composer, tag string, m Modifier, content func()) {
	r.element(c, tag, m, "", nil, content)
}

// RenderRaw emits html verbatim. The caller is responsible for its safety.
func (r *HTMLRenderer) RenderRaw(c *compose.Composer, html string) {
	c.StartNode()
	c.EmitNode(vdom.Raw(html))
	c.EndNode()
}

func (r *HTMLRenderer) AddHeadElement(fragment string) {
	r.head.Add(fragment)
}

func (r *HTMLRenderer) HeadElements() []string {
	return r.head.Elements()
}

// Head returns the renderer's head collector.
func (r *HTMLRenderer) Head() *HeadCollector {
	return r.head
}

// Markup serialises the node tree of rec's last pass.
func (r *HTMLRenderer) Markup(rec *compose.Recomposer) (string, error) {
	return r.serializer.SerializeToString(Materialize(rec.Nodes())...)
}

// Handlers returns the event handlers registered by the last Markup call,
// keyed "hid_onevent".
func (r *HTMLRenderer) Handlers() map[string]any {
	return r.serializer.Handlers()
}

// Bind returns the Recomposer options that bind r to a composition.
func (r *HTMLRenderer) Bind(extra ...compose.Provided) []compose.Option {
	locals := append([]compose.Provided{LocalRenderer.Provides(r)}, extra...)
	return []compose.Option{compose.WithLocals(locals...), compose.WithLogger(r.logger)}
}

func (r *HTMLRenderer) RenderComposableRoot(root compose.Composable) (string, error) {
	opts := append(r.Bind(), compose.WithMode(compose.ModeServer))
	rec := compose.NewRecomposer(opts...)
	defer rec.Dispose()

	if err := rec.Compose(root); err != nil {
		return "", err
	}
	return r.Markup(rec)
}

// Materialize converts emitted nodes into a fresh element tree. Payloads
// that are not elements are skipped and their children hoisted.
func Materialize(refs []*compose.NodeRef) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(refs))
	for _, ref := range refs {
		el, ok := ref.Payload.(*vdom.VNode)
		if !ok {
			out = append(out, Materialize(ref.Children)...)
			continue
		}
		n := el.Clone()
		n.Children = Materialize(ref.Children)
		out = append(out, n)
	}
	return out
}
