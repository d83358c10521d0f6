package demo

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/server"
	"github.com/summon-dev/summon/pkg/ui"
)

// footer is a plain templ component embedded into composed pages.
var footer = templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, `<footer class="footer">Built with summon</footer>`)
	return err
})

// About is a static page. It is served from the render cache.
func About(c *compose.Composer) {
	ui.Meta(c, "author", "summon")
	ui.Stylesheet(c, "/static/about.css")

	layout(c, func() {
		ui.Element(c, "h1", ui.Modifier{}, func() {
			ui.Text(c, "About", ui.Modifier{})
		})
		ui.Text(c, "Pages are composed once on the server and can continue live over a websocket.", ui.Modifier{})
		ui.Image(c, "/static/logo.png", "summon logo", ui.Modifier{}.Class("logo"))
		ui.Link(c, "/hello/world", ui.Modifier{}, func() {
			ui.Text(c, "Say hello", ui.Modifier{})
		})
		ui.Templ(c, footer)
	})
}

// Hello greets the {name} route parameter.
func Hello(c *compose.Composer) {
	name := server.Param(c, "name")
	ui.Title(c, "Hello, "+name)
	layout(c, func() {
		ui.Text(c, "Hello, "+name+"!", ui.Modifier{}.Class("greeting"))
	})
}
