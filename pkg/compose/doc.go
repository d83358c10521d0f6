// Package compose provides the composition runtime for Summon.
//
// A composition is a tree of groups built by running composable functions
// against a Composer. Each group owns positional slots that persist across
// passes, so values remembered on the first pass are found again at the
// same position on later passes:
//
//	func Counter(c *compose.Composer) {
//	    count := compose.RememberState(c, 0)
//	    ui.Text(c, fmt.Sprintf("Count: %d", count.Get(c)))
//	    ui.Button(c, func() { count.Update(inc) }, func() { ui.Text(c, "+") })
//	}
//
// # Passes
//
// A Recomposer owns the Composer. Compose runs a full pass from the root;
// Recompose re-runs only the restartable scopes invalidated by State writes
// since the last pass, ancestors first.
//
//	rec := compose.NewRecomposer(compose.WithMode(compose.ModeClient))
//	if err := rec.Compose(App); err != nil { ... }
//	count.Set(5)
//	n, err := rec.Recompose()
//
// # Tracking
//
// State reads take a Tracker explicitly. Passing the active *Composer
// subscribes the innermost restartable scope; passing nil reads without
// subscribing. There is no goroutine-local tracking context.
//
// # Effects
//
// LaunchedEffect, DisposableEffect and SideEffect queue work during the
// pass; setups and cleanups run after the pass completes successfully.
//
// # CompositionLocal
//
// Locals are values provided to a subtree without explicit parameters:
//
//	var LocalTheme = compose.LocalOf("theme", "light")
//
//	LocalTheme.Provide(c, "dark", func() {
//	    theme := LocalTheme.Current(c) // "dark"
//	})
//
// # Thread Safety
//
// A Composer is driven by one goroutine at a time. State values may be read
// and written from any goroutine; writes from other goroutines mark scopes
// dirty and signal the Recomposer's Dirty channel.
package compose
