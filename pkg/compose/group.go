package compose

type groupKind uint8

const (
	kindGroup groupKind = iota
	kindNode
	kindScope
	kindRoot
)

func (k groupKind) String() string {
	switch k {
	case kindNode:
		return "node"
	case kindScope:
		return "restart scope"
	case kindRoot:
		return "root"
	default:
		return "group"
	}
}

// group is one record of the slot table. Groups form a tree that persists
// across passes; slots are positional within their group.
type group struct {
	key    any
	kind   groupKind
	parent *group
	depth  int

	slots    []Slot
	children []*group
	keyed    map[any]any
	node     any
	scope    *Scope

	// failed marks an isolated group whose last pass panicked. Its
	// nodes are left out of the rendered tree.
	failed   bool
	disposed bool
}

// dispose releases the group's subtree: children first, then its own slots
// in reverse order.
func (g *group) dispose(c *Composer) {
	if g.disposed {
		return
	}
	g.disposed = true
	for i := len(g.children) - 1; i >= 0; i-- {
		g.children[i].dispose(c)
	}
	for i := len(g.slots) - 1; i >= 0; i-- {
		g.slots[i].release(c)
	}
	for _, v := range g.keyed {
		if f, ok := v.(Forgettable); ok {
			f.OnForgotten()
		}
	}
	if g.scope != nil {
		g.scope.dispose()
	}
	g.slots, g.children, g.keyed, g.node = nil, nil, nil, nil
}

// frame is the per-pass cursor state of an open group.
type frame struct {
	g         *group
	cursor    int
	current   int
	inserting bool

	// previous holds the children from the last pass; matched entries are
	// set to nil.
	previous []*group
	next     int
}

// take returns the first unmatched previous child with the given key and
// kind, or nil.
func (f *frame) take(key any, kind groupKind) *group {
	for i := f.next; i < len(f.previous); i++ {
		old := f.previous[i]
		if old == nil || old.kind != kind || !valuesEqual(old.key, key) {
			continue
		}
		f.previous[i] = nil
		for f.next < len(f.previous) && f.previous[f.next] == nil {
			f.next++
		}
		return old
	}
	return nil
}

// finish closes the frame normally: slots past the cursor and unmatched
// children are released.
func (f *frame) finish(c *Composer) {
	g := f.g
	for i := len(g.slots) - 1; i >= f.cursor; i-- {
		g.slots[i].release(c)
	}
	g.slots = g.slots[:f.cursor]
	for _, old := range f.previous {
		if old != nil {
			old.dispose(c)
		}
	}
	f.previous = nil
}

// abandon closes the frame after a panic. Nothing is released: unvisited
// slots stay in place and unmatched children are kept for the next pass.
func (f *frame) abandon() {
	for _, old := range f.previous {
		if old != nil {
			f.g.children = append(f.g.children, old)
		}
	}
	f.previous = nil
}
