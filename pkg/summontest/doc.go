// Package summontest provides helpers for testing composables.
//
// Mount composes a composable in client mode, the way a live session does,
// and drives it by calling the handlers named in its rendered markup:
//
//	func TestCounter(t *testing.T) {
//	    h := summontest.Mount(t, Counter)
//	    summontest.ExpectContains(t, h.HTML(), "Count: 0")
//
//	    html := h.Click("h1")
//	    summontest.ExpectContains(t, html, "Count: 1")
//	}
//
// Route parameters, restored state and extra locals are set with options:
//
//	h := summontest.Mount(t, Profile,
//	    summontest.WithParam("id", "42"),
//	    summontest.WithState(map[string]any{"tab": "posts"}),
//	)
//
// Render runs a one-shot server render and returns the full document.
package summontest
