package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs for interactive elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// Reset resets the counter to 0.
func (g *HIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = 0
}

// Current returns the current counter value without incrementing.
func (g *HIDGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// AssignHIDs walks the tree in document order and assigns HIDs to
// interactive elements. Existing HIDs are overwritten.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	if node == nil {
		return
	}
	node.HID = ""
	if node.IsInteractive() {
		node.HID = gen.Next()
	}
	for _, child := range node.Children {
		AssignHIDs(child, gen)
	}
}

// CollectHandlers returns the handler registry of a tree whose HIDs have
// been assigned. Keys have the form "hid_onevent" (e.g., "h1_onclick").
func CollectHandlers(node *VNode) map[string]any {
	handlers := make(map[string]any)
	collectHandlers(node, handlers)
	return handlers
}

func collectHandlers(node *VNode, handlers map[string]any) {
	if node == nil {
		return
	}
	if node.HID != "" {
		for _, event := range node.Events() {
			handlers[node.HID+"_on"+event] = node.Props["on"+event]
		}
	}
	for _, child := range node.Children {
		collectHandlers(child, handlers)
	}
}

// FindByHID finds a node by its HID in the tree.
func FindByHID(node *VNode, hid string) *VNode {
	if node == nil {
		return nil
	}
	if node.HID == hid {
		return node
	}
	for _, child := range node.Children {
		if found := FindByHID(child, hid); found != nil {
			return found
		}
	}
	return nil
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(node *VNode) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsInteractive() {
		count = 1
	}
	for _, child := range node.Children {
		count += CountInteractive(child)
	}
	return count
}
