// Package vdom defines the element tree produced by the HTML renderer.
//
// Each node emitted into a composition carries a *VNode payload. After a
// pass the renderer materialises the composer's node tree into a VNode tree
// and serialises it.
//
// # Hydration
//
// AssignHIDs walks the tree in document order and gives every interactive
// element (one with an event handler) a hydration ID. The same composition
// always yields the same IDs, so a live session can route a client event
// back to the handler registered under that ID.
package vdom
