package ui

import "github.com/summon-dev/summon/pkg/compose"

// For composes content once per item, each in a group keyed by key(item).
// Items keep their remembered state and effects across reorders. A nil key
// function keys items by index.
func For[T any](c *compose.Composer, items []T, key func(T) any, content func(T)) {
	for i, item := range items {
		var k any = i
		if key != nil {
			k = key(item)
		}
		c.Group(k, func() { content(item) })
	}
}

type whenKey bool

// whenSite holds a conditional's position among its siblings whether or not
// a branch is present.
type whenSite struct{}

// When composes content only while cond holds. Remembered state inside is
// forgotten when cond becomes false.
func When(c *compose.Composer, cond bool, content func()) {
	c.Group(whenSite{}, func() {
		if cond {
			c.Group(whenKey(true), content)
		}
	})
}

// WhenElse composes then or otherwise. The branches have separate
// identities, so switching drops the other branch's state.
func WhenElse(c *compose.Composer, cond bool, then, otherwise func()) {
	c.Group(whenSite{}, func() {
		if cond {
			c.Group(whenKey(true), then)
		} else {
			c.Group(whenKey(false), otherwise)
		}
	})
}

type fallbackKey struct{ key any }

// ErrorBoundary composes content in isolation. If content panics its
// partial output is dropped, fallback is composed with the error in its
// place, and the rest of the pass continues.
func ErrorBoundary(c *compose.Composer, key any, content func(), fallback func(err error)) {
	err := c.Isolate(key, content)
	if err != nil && fallback != nil {
		c.Group(fallbackKey{key}, func() { fallback(err) })
	}
}
