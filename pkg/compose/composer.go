package compose

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Composable is a function that describes UI by calling into a Composer.
type Composable func(c *Composer)

// Composer maintains the slot table during composition. It is created by a
// Recomposer and driven by one goroutine at a time.
type Composer struct {
	mode   Mode
	logger *slog.Logger
	rec    *Recomposer

	composing atomic.Bool
	writes    atomic.Int64

	root   *group
	stack  []*frame
	scopes []*Scope

	locals *localFrame
	base   *localFrame

	effects effectQueue

	saveMu   sync.Mutex
	saveable map[string][]saveEntry
	restored map[string]any
}

// Mode returns the execution mode the composition runs in.
func (c *Composer) Mode() Mode {
	return c.mode
}

// Composing reports whether a pass is running.
func (c *Composer) Composing() bool {
	return c != nil && c.composing.Load()
}

// Context returns the composition's context. It is cancelled when the
// Recomposer is disposed.
func (c *Composer) Context() context.Context {
	return c.rec.ctx
}

// Depth returns the depth of the innermost open group. The root is 0.
func (c *Composer) Depth() int {
	if len(c.stack) == 0 {
		return -1
	}
	return c.stack[len(c.stack)-1].g.depth
}

// Writes returns the number of state writes observed while a pass was
// running.
func (c *Composer) Writes() int64 {
	return c.writes.Load()
}

func (c *Composer) requireComposing(op string) {
	if !c.Composing() {
		panic(noComposer(op))
	}
}

func (c *Composer) top(op string) *frame {
	if len(c.stack) == 0 {
		panic(newStructuralError("E004", op, -1, -1, "no group is open"))
	}
	return c.stack[len(c.stack)-1]
}

func (c *Composer) structural(code, op, format string, args ...any) *StructuralError {
	depth, slot := -1, -1
	if len(c.stack) > 0 {
		f := c.stack[len(c.stack)-1]
		depth, slot = f.g.depth, f.current
	}
	return newStructuralError(code, op, depth, slot, format, args...)
}

func (c *Composer) mismatch(op string, want, got SlotKind) *StructuralError {
	return c.structural("E003", op, "expected a %s slot, found %s", want, got)
}

// enter pushes a frame for g. Its children from the last pass become
// candidates for matching.
func (c *Composer) enter(g *group) *frame {
	f := &frame{g: g, current: -1, previous: g.children}
	g.children = nil
	c.stack = append(c.stack, f)
	return f
}

func (c *Composer) startGroup(op string, key any, kind groupKind) *group {
	c.requireComposing(op)
	parent := c.top(op)
	g := parent.take(key, kind)
	if g == nil {
		g = &group{key: key, kind: kind, parent: parent.g, depth: parent.g.depth + 1}
	}
	parent.g.children = append(parent.g.children, g)
	c.enter(g)
	return g
}

func (c *Composer) endGroup(op string, kind groupKind) {
	c.requireComposing(op)
	if len(c.stack) <= 1 {
		panic(c.structural("E001", op, "no open %s to close", kind))
	}
	f := c.stack[len(c.stack)-1]
	if f.g.kind != kind {
		panic(c.structural("E001", op, "closes a %s but the innermost open bracket is a %s", kind, f.g.kind))
	}
	f.finish(c)
	c.stack = c.stack[:len(c.stack)-1]
}

// closeBase closes the bottom frame of a pass.
func (c *Composer) closeBase(base *frame) {
	if n := len(c.stack); n == 0 || c.stack[n-1] != base {
		panic(c.structural("E002", "pass", "%d group(s) still open", len(c.stack)-1))
	}
	base.finish(c)
	c.stack = c.stack[:len(c.stack)-1]
}

// unwind abandons open frames until n remain.
func (c *Composer) unwind(n int) {
	for len(c.stack) > n {
		c.stack[len(c.stack)-1].abandon()
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// StartGroup opens a group identified by key. A group from the previous
// pass with an equal key is reused, so its slots are found again.
func (c *Composer) StartGroup(key any) {
	c.startGroup("StartGroup", key, kindGroup)
}

// EndGroup closes the innermost group. It panics with a *StructuralError
// if no group is open or the innermost bracket is a node.
func (c *Composer) EndGroup() {
	c.endGroup("EndGroup", kindGroup)
}

// StartNode opens a group that stands for an emitted UI node.
func (c *Composer) StartNode() {
	c.startGroup("StartNode", nil, kindNode)
}

// EndNode closes the innermost node.
func (c *Composer) EndNode() {
	c.endGroup("EndNode", kindNode)
}

// Group brackets content in a group identified by key.
func (c *Composer) Group(key any, content func()) {
	c.StartGroup(key)
	content()
	c.EndGroup()
}

// Key runs content in a group identified by key. It is the usual way to
// keep per-item slots attached to items in a loop.
func Key(c *Composer, key any, content func()) {
	c.Group(key, content)
}

// EmitNode sets the payload of the innermost open node.
func (c *Composer) EmitNode(payload any) {
	c.requireComposing("EmitNode")
	f := c.top("EmitNode")
	if f.g.kind != kindNode {
		panic(c.structural("E001", "EmitNode", "innermost open bracket is a %s, not a node", f.g.kind))
	}
	f.g.node = payload
}

func (c *Composer) nextSlot(op string) (*frame, int, bool) {
	c.requireComposing(op)
	f := c.top(op)
	idx := f.cursor
	f.cursor++
	f.current = idx
	f.inserting = idx >= len(f.g.slots)
	if f.inserting {
		f.g.slots = append(f.g.slots, Slot{})
	}
	return f, idx, f.inserting
}

// NextSlot advances to the next slot of the current group and reports its
// index and whether it was newly inserted.
func (c *Composer) NextSlot() (int, bool) {
	_, idx, inserting := c.nextSlot("NextSlot")
	return idx, inserting
}

// Inserting reports whether the slot consumed last was newly inserted.
func (c *Composer) Inserting() bool {
	if len(c.stack) == 0 {
		return false
	}
	return c.stack[len(c.stack)-1].inserting
}

func (c *Composer) slotRef(op string) *Slot {
	f := c.top(op)
	if f.current < 0 {
		panic(c.structural("E004", op, "no slot has been consumed in this group"))
	}
	return &f.g.slots[f.current]
}

// GetSlot returns the slot consumed by the last NextSlot call.
func (c *Composer) GetSlot() Slot {
	c.requireComposing("GetSlot")
	return *c.slotRef("GetSlot")
}

// SetSlot stores value in the slot consumed by the last NextSlot call.
func (c *Composer) SetSlot(value any) {
	c.requireComposing("SetSlot")
	*c.slotRef("SetSlot") = Slot{Kind: SlotValue, Value: value}
}

// claim consumes a slot of the given kind and reports whether it still
// needs to be initialised.
func (c *Composer) claim(op string, kind SlotKind) (*frame, int, bool) {
	f, idx, inserting := c.nextSlot(op)
	s := f.g.slots[idx]
	if inserting || s.Kind == SlotEmpty {
		return f, idx, true
	}
	if s.Kind != kind {
		panic(c.mismatch(op, kind, s.Kind))
	}
	return f, idx, false
}

func slotValue[T any](c *Composer, op string, s Slot) T {
	var zero T
	if s.Value == nil {
		return zero
	}
	v, ok := s.Value.(T)
	if !ok {
		panic(c.structural("E003", op, "slot holds %T, expected %T", s.Value, zero))
	}
	return v
}

// Changed consumes a slot and reports whether value differs from the one
// stored there on the previous pass. The new value is stored.
func (c *Composer) Changed(value any) bool {
	f, idx, fresh := c.claim("Changed", SlotValue)
	if !fresh && valuesEqual(f.g.slots[idx].Value, value) {
		return false
	}
	f.g.slots[idx] = Slot{Kind: SlotValue, Value: value}
	return true
}

// RememberedValue returns the value stored under key on the current group.
func (c *Composer) RememberedValue(key any) (any, bool) {
	c.requireComposing("RememberedValue")
	v, ok := c.top("RememberedValue").g.keyed[key]
	return v, ok
}

// UpdateRememberedValue stores value under key on the current group.
func (c *Composer) UpdateRememberedValue(key, value any) {
	c.requireComposing("UpdateRememberedValue")
	g := c.top("UpdateRememberedValue").g
	if g.keyed == nil {
		g.keyed = make(map[any]any)
	}
	g.keyed[key] = value
}

// RecordRead subscribes the innermost restartable scope to o. Outside a
// pass it does nothing, so a nil *Composer is a valid Tracker.
func (c *Composer) RecordRead(o Observable) {
	if !c.Composing() || len(c.scopes) == 0 {
		return
	}
	c.scopes[len(c.scopes)-1].track(o.observers())
}

// RecordWrite notes a state write that happened while a pass was running.
// The affected scopes recompose on the next pass, not the current one.
func (c *Composer) RecordWrite(o Observable) {
	if !c.Composing() {
		return
	}
	c.writes.Add(1)
	c.logger.Debug("state written during composition", "state", o.ID())
}

// Isolate runs content in a group identified by key and converts a panic
// raised inside it into an error. The group stack, locals and queued effects
// are restored, so siblings keep their slots and the next pass starts from a
// consistent table.
func (c *Composer) Isolate(key any, content func()) (err error) {
	g := c.startGroup("Isolate", key, kindGroup)
	depth := len(c.stack)
	scopes := len(c.scopes)
	locals := c.locals
	mark := c.effects.mark()

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(r)
				c.unwind(depth)
				c.scopes = c.scopes[:scopes]
				c.locals = locals
				c.effects.truncate(mark)
			}
		}()
		content()
	}()

	g.failed = err != nil
	if err != nil {
		c.unwind(depth - 1)
		c.logger.Warn("isolated composition failed", "key", key, "error", err)
		return err
	}
	if len(c.stack) != depth {
		panic(c.structural("E002", "Isolate", "%d group(s) left open", len(c.stack)-depth))
	}
	c.endGroup("Isolate", kindGroup)
	return nil
}

// runPass runs body as one composition pass. Panics are converted into the
// returned error after the group stack has been unwound.
func (c *Composer) runPass(body func()) (err error) {
	mark := c.effects.mark()
	c.composing.Store(true)
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
			c.unwind(0)
			c.effects.truncate(mark)
		}
		c.locals = c.base
		c.scopes = c.scopes[:0]
		c.composing.Store(false)
	}()
	body()
	return nil
}

func (c *Composer) composeRoot(content Composable) {
	c.locals = c.base
	base := c.enter(c.root)
	c.runScope(c.root.scope, content)
	c.closeBase(base)
}

// NodeRef is one emitted node with its emitted descendants.
type NodeRef struct {
	Payload  any
	Children []*NodeRef
}

// Nodes returns the emitted node tree in composition order. Groups that
// emit nothing are transparent.
func (c *Composer) Nodes() []*NodeRef {
	var out []*NodeRef
	if c.root != nil {
		collectNodes(c.root, &out)
	}
	return out
}

func collectNodes(g *group, out *[]*NodeRef) {
	for _, ch := range g.children {
		if ch.failed {
			continue
		}
		if ch.kind == kindNode && ch.node != nil {
			ref := &NodeRef{Payload: ch.node}
			collectNodes(ch, &ref.Children)
			*out = append(*out, ref)
			continue
		}
		collectNodes(ch, out)
	}
}

// Snapshot flattens the slot table. Each group is a start marker, its
// positional slots, its child groups and an end marker.
func (c *Composer) Snapshot() []SlotEntry {
	var out []SlotEntry
	if c.root != nil {
		snapshot(c.root, &out)
	}
	for i := range out {
		out[i].Index = i
	}
	return out
}

func snapshot(g *group, out *[]SlotEntry) {
	start, end := SlotGroupStart, SlotGroupEnd
	if g.kind == kindNode {
		start, end = SlotNodeStart, SlotNodeEnd
	}
	*out = append(*out, SlotEntry{Depth: g.depth, Kind: start, Value: g.key})
	for _, s := range g.slots {
		*out = append(*out, SlotEntry{Depth: g.depth + 1, Kind: s.Kind, Value: s.Value})
	}
	for _, ch := range g.children {
		snapshot(ch, out)
	}
	*out = append(*out, SlotEntry{Depth: g.depth, Kind: end, Value: g.key})
}
