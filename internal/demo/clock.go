package demo

import (
	"context"
	"time"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ui"
)

// ClockPlaceholder is shown until the first tick. Server renders always
// show it, which keeps them deterministic.
const ClockPlaceholder = "--:--:--"

var (
	clockInterval = time.Second
	clockNow      = time.Now
)

// Clock shows the time, updated by a client-only effect. In a live session
// every tick pushes new markup to the browser.
func Clock(c *compose.Composer) {
	now := compose.RememberState(c, ClockPlaceholder)

	compose.LaunchedEffect(c, nil, func(ctx context.Context) {
		ticker := time.NewTicker(clockInterval)
		defer ticker.Stop()
		now.Set(clockNow().Format(time.TimeOnly))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now.Set(clockNow().Format(time.TimeOnly))
			}
		}
	}, compose.RunOn(compose.TargetClient))

	layout(c, func() {
		c.Call("time", func(c *compose.Composer) {
			ui.Text(c, now.Get(c), ui.Modifier{}.Class("clock"))
		})
	})
}
