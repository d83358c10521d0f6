package compose

import "fmt"

// SlotKind tags an entry of the slot table.
type SlotKind uint8

const (
	// SlotEmpty is a slot that was allocated but never written.
	SlotEmpty SlotKind = iota
	// SlotValue holds a remembered value or a Changed comparison value.
	SlotValue
	// SlotState holds a *State or a saveable state handle.
	SlotState
	// SlotEffect holds an effect site.
	SlotEffect

	// Marker kinds appear only in Snapshot output.
	SlotGroupStart
	SlotGroupEnd
	SlotNodeStart
	SlotNodeEnd
)

var slotKindNames = [...]string{
	SlotEmpty:      "empty",
	SlotValue:      "value",
	SlotState:      "state",
	SlotEffect:     "effect",
	SlotGroupStart: "group-start",
	SlotGroupEnd:   "group-end",
	SlotNodeStart:  "node-start",
	SlotNodeEnd:    "node-end",
}

func (k SlotKind) String() string {
	if int(k) < len(slotKindNames) {
		return slotKindNames[k]
	}
	return fmt.Sprintf("SlotKind(%d)", k)
}

// Slot is one positional entry of a group.
type Slot struct {
	Kind  SlotKind
	Value any
}

// SlotEntry is one row of a flattened slot table. Group and node markers
// carry the group key in Value.
type SlotEntry struct {
	Index int
	Depth int
	Kind  SlotKind
	Value any
}

// release tells the slot's occupant that it left the composition.
func (s *Slot) release(c *Composer) {
	switch s.Kind {
	case SlotEffect:
		if site, ok := s.Value.(*effectSite); ok {
			c.queueDispose(site)
		}
	default:
		if f, ok := s.Value.(Forgettable); ok {
			f.OnForgotten()
		}
	}
	*s = Slot{}
}
