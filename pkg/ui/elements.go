package ui

import (
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/render"
)

// Modifier is render.Modifier, re-exported so pages rarely import render.
type Modifier = render.Modifier

// TextFieldOptions is render.TextFieldOptions.
type TextFieldOptions = render.TextFieldOptions

// Column lays content out vertically.
func Column(c *compose.Composer, m Modifier, content func()) {
	render.Current(c).RenderColumn(c, m, content)
}

// Row lays content out horizontally.
func Row(c *compose.Composer, m Modifier, content func()) {
	render.Current(c).RenderRow(c, m, content)
}

// Box is a plain container.
func Box(c *compose.Composer, m Modifier, content func()) {
	render.Current(c).RenderBox(c, m, content)
}

// Text emits text. It is always escaped.
func Text(c *compose.Composer, text string, m Modifier) {
	render.Current(c).RenderText(c, text, m)
}

// Button emits a button calling onClick. Disable it with
// Modifier.Flag("disabled", true).
func Button(c *compose.Composer, onClick func(), m Modifier, content func()) {
	render.Current(c).RenderButton(c, onClick, m, content)
}

// TextField emits a text input. onChange receives every edit.
func TextField(c *compose.Composer, value string, onChange func(string), m Modifier, opts TextFieldOptions) {
	render.Current(c).RenderTextField(c, value, onChange, m, opts)
}

// Form emits a form. onSubmit receives the named field values.
func Form(c *compose.Composer, onSubmit func(fields map[string]string), m Modifier, content func()) {
	render.Current(c).RenderForm(c, onSubmit, m, content)
}

// Link emits an anchor to href.
func Link(c *compose.Composer, href string, m Modifier, content func()) {
	render.Current(c).RenderLink(c, href, m, content)
}

// Image emits an image.
func Image(c *compose.Composer, src, alt string, m Modifier) {
	render.Current(c).RenderImage(c, src, alt, m)
}

// Element emits an arbitrary element.
func Element(c *compose.Composer, tag string, m Modifier, content func()) {
	render.Current(c).RenderElement(c, tag, m, content)
}

// Raw emits html without escaping. Never pass user input.
func Raw(c *compose.Composer, html string) {
	render.Current(c).RenderRaw(c, html)
}
