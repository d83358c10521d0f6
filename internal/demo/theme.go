package demo

import (
	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ui"
)

// Theme is a color scheme provided to a subtree through LocalTheme.
type Theme struct {
	Name       string
	Background string
	Foreground string
}

var (
	Light = Theme{Name: "light", Background: "#ffffff", Foreground: "#111111"}
	Dark  = Theme{Name: "dark", Background: "#111111", Foreground: "#eeeeee"}
)

// LocalTheme is the theme in effect for a subtree. It defaults to Light.
var LocalTheme = compose.LocalOf("demo.LocalTheme", Light)

// Themed shows the same card under the outer theme and a nested override.
func Themed(c *compose.Composer) {
	dark := compose.RememberSaveableState(c, "dark", false)

	layout(c, func() {
		theme := Light
		if dark.Get(c) {
			theme = Dark
		}
		LocalTheme.Provide(c, theme, func() {
			card(c, "Outer")
			LocalTheme.Provide(c, invert(theme), func() {
				card(c, "Nested")
			})
			card(c, "Outer again")
		})
		ui.Button(c, func() { dark.Update(func(d bool) bool { return !d }) }, ui.Modifier{}, func() {
			ui.Text(c, "Toggle theme", ui.Modifier{})
		})
	})
}

func invert(t Theme) Theme {
	if t.Name == Dark.Name {
		return Light
	}
	return Dark
}

// card renders label in the current theme's colors.
func card(c *compose.Composer, label string) {
	t := LocalTheme.Current(c)
	m := ui.Modifier{}.
		Class("card", "theme-"+t.Name).
		Style("background", t.Background).
		Style("color", t.Foreground)
	ui.Box(c, m, func() {
		ui.Text(c, label+": "+t.Name, ui.Modifier{})
	})
}
