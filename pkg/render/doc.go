// Package render defines the renderer contract that composables draw
// through and provides the HTML renderer used for server-side rendering and
// live sessions.
//
// Composables never build markup themselves. They look up the renderer
// bound to the composition and call it:
//
//	r := render.Current(c)
//	r.RenderColumn(c, render.Modifier{}.Class("card"), func() {
//	    r.RenderText(c, "Hello", render.Modifier{})
//	})
//
// # HTML Renderer
//
// HTMLRenderer opens one composition node per call and keeps its element in
// the node's remembered storage. After a pass, Markup materialises the node
// tree and serialises it:
//
//   - attributes in sorted order, styles in call order
//   - text and attribute escaping
//   - void elements and boolean attributes
//   - data-hid hydration IDs on interactive elements, in document order
//
// The same composition always produces byte-identical markup.
package render
