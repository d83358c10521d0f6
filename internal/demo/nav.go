package demo

import (
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ui"
)

type navLink struct {
	href, label string
}

var navLinks = []navLink{
	{"/", "Counter"},
	{"/todos", "Todos"},
	{"/theme", "Theme"},
	{"/clock", "Clock"},
	{"/about", "About"},
}

// layout wraps page content with the shared navigation.
func layout(c *compose.Composer, content func()) {
	ui.Column(c, ui.Modifier{}.Class("page"), func() {
		ui.Row(c, ui.Modifier{}.Class("nav"), func() {
			ui.For(c, navLinks, func(l navLink) any { return l.href }, func(l navLink) {
				ui.Link(c, l.href, ui.Modifier{}, func() {
					ui.Text(c, l.label, ui.Modifier{})
				})
			})
		})
		content()
	})
}
