package render

import "github.com/summon-dev/summon/pkg/compose"

// TextFieldOptions configures RenderTextField.
type TextFieldOptions struct {
	Name        string
	Type        string // input type, "text" when empty
	Placeholder string
	Disabled    bool
	ReadOnly    bool
}

// PlatformRenderer is the contract between composables and a rendering
// backend. Every call that emits an element opens a node in the calling
// composition, so content passed to a container renders as its children.
type PlatformRenderer interface {
	RenderText(c *compose.Composer, text string, m Modifier)
	RenderButton(c *compose.Composer, onClick func(), m Modifier, content func())
	RenderRow(c *compose.Composer, m Modifier, content func())
	RenderColumn(c *compose.Composer, m Modifier, content func())
	RenderBox(c *compose.Composer, m Modifier, content func())
	RenderTextField(c *compose.Composer, value string, onChange func(string), m Modifier, opts TextFieldOptions)
	RenderForm(c *compose.Composer, onSubmit func(fields map[string]string), m Modifier, content func())
	RenderLink(c *compose.Composer, href string, m Modifier, content func())
	RenderImage(c *compose.Composer, src, alt string, m Modifier)
	RenderElement(c *compose.Composer, tag string, m Modifier, content func())
	RenderRaw(c *compose.Composer, html string)

	// AddHeadElement queues a fragment for the document head.
	AddHeadElement(fragment string)
	// HeadElements returns the queued head fragments in order.
	HeadElements() []string

	// RenderComposableRoot runs root in a fresh one-shot composition bound
	// to this renderer and returns its markup.
	RenderComposableRoot(root compose.Composable) (string, error)
}

// LocalRenderer holds the renderer bound to a composition root. Reading it
// without a provider fails with compose.ErrMissingProvider.
var LocalRenderer = compose.RequiredLocalOf[PlatformRenderer]("render.LocalRenderer")

// Current returns the renderer bound to the composition. It panics with a
// *compose.ProviderError if none is provided.
func Current(c *compose.Composer) PlatformRenderer {
	return LocalRenderer.Current(c)
}
