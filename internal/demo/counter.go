package demo

import (
	"fmt"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ui"
)

// CountKey is the hydration key of the counter value.
const CountKey = "count"

// CounterGoal is the value the counter's progress bar fills at.
const CounterGoal = 10

// Counter is a saveable counter with a progress bar toward CounterGoal.
func Counter(c *compose.Composer) {
	count := compose.RememberSaveableState(c, CountKey, 0)
	parity := compose.RememberDerived(c, func(t compose.Tracker) string {
		if count.Get(t)%2 == 0 {
			return "even"
		}
		return "odd"
	})

	layout(c, func() {
		c.Call("value", func(c *compose.Composer) {
			ui.Text(c, fmt.Sprintf("Count: %d (%s)", count.Get(c), parity.Get(c)), ui.Modifier{}.Class("count"))
			ui.Progress(c, float64(count.Get(c)), CounterGoal, ui.Modifier{})
		})
		ui.Row(c, ui.Modifier{}.Class("controls"), func() {
			ui.Button(c, func() { count.Update(func(n int) int { return n - 1 }) }, ui.Modifier{}.Aria("label", "decrement"), func() {
				ui.Text(c, "-", ui.Modifier{})
			})
			ui.Button(c, func() { count.Update(func(n int) int { return n + 1 }) }, ui.Modifier{}.Aria("label", "increment"), func() {
				ui.Text(c, "+", ui.Modifier{})
			})
			ui.Button(c, func() { count.Set(0) }, ui.Modifier{}, func() {
				ui.Text(c, "Reset", ui.Modifier{})
			})
		})
	})
}
