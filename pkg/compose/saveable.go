package compose

import (
	"encoding/json"
	"fmt"
	"sort"
)

// saveable is the slot occupant of RememberSaveableState. It unregisters
// its key when the slot is released.
type saveable[T any] struct {
	c     *Composer
	key   string
	state *State[T]
}

func (s *saveable[T]) OnForgotten() {
	s.c.unregisterSaveable(s.key, s)
}

// saveEntry is one registration of a saveable key. When a key is registered
// more than once the latest live registration supplies the value.
type saveEntry struct {
	owner any
	get   func() any
}

// RememberSaveableState is RememberState for values that are serialised
// into the hydration payload under key. On the first pass the initial value
// is taken from the restored state if present.
func RememberSaveableState[T any](c *Composer, key string, initial T) *State[T] {
	f, idx, fresh := c.claim("RememberSaveableState", SlotState)
	if !fresh {
		return slotValue[*saveable[T]](c, "RememberSaveableState", f.g.slots[idx]).state
	}

	value := initial
	if raw, ok := c.restored[key]; ok {
		v, err := convertRestored[T](raw)
		if err != nil {
			c.logger.Warn("ignoring restored state", "key", key, "error", err)
		} else {
			value = v
		}
	}

	st := NewState(value)
	st.owner = c
	h := &saveable[T]{c: c, key: key, state: st}
	c.registerSaveable(key, h, func() any { return st.Peek() })
	f.g.slots[idx] = Slot{Kind: SlotState, Value: h}
	return st
}

// convertRestored turns a decoded JSON value into T.
func convertRestored[T any](raw any) (T, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}
	var v T
	b, err := json.Marshal(raw)
	if err != nil {
		return v, fmt.Errorf("marshal restored value: %w", err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decode restored value as %T: %w", v, err)
	}
	return v, nil
}

func (c *Composer) registerSaveable(key string, owner any, get func() any) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if len(c.saveable[key]) > 0 {
		c.logger.Warn("duplicate saveable state key", "key", key)
	}
	c.saveable[key] = append(c.saveable[key], saveEntry{owner: owner, get: get})
}

// unregisterSaveable removes owner's registration of key. Other
// registrations of the same key stay in place.
func (c *Composer) unregisterSaveable(key string, owner any) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	entries := c.saveable[key]
	for i, e := range entries {
		if e.owner != owner {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		break
	}
	if len(entries) == 0 {
		delete(c.saveable, key)
		return
	}
	c.saveable[key] = entries
}

// SaveableState returns the current value of every saveable state.
func (c *Composer) SaveableState() map[string]any {
	c.saveMu.Lock()
	keys := make([]string, 0, len(c.saveable))
	for k := range c.saveable {
		keys = append(keys, k)
	}
	getters := make([]func() any, len(keys))
	sort.Strings(keys)
	for i, k := range keys {
		entries := c.saveable[k]
		getters[i] = entries[len(entries)-1].get
	}
	c.saveMu.Unlock()

	out := make(map[string]any, len(keys))
	for i, k := range keys {
		out[k] = getters[i]()
	}
	return out
}

// RestoredValue returns the restored value for key, if any.
func (c *Composer) RestoredValue(key string) (any, bool) {
	v, ok := c.restored[key]
	return v, ok
}
