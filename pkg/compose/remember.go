package compose

// Remember returns the value computed by calc on the first pass at this
// position. Later passes return the stored value without calling calc.
func Remember[T any](c *Composer, calc func() T) T {
	f, idx, fresh := c.claim("Remember", SlotValue)
	if !fresh {
		return slotValue[T](c, "Remember", f.g.slots[idx])
	}
	v := calc()
	f.g.slots[idx] = Slot{Kind: SlotValue, Value: v}
	return v
}

// RememberKeyed is like Remember but recomputes when key differs from the
// key seen on the previous pass. The replaced value is forgotten.
func RememberKeyed[T any](c *Composer, key any, calc func() T) T {
	changed := c.Changed(key)
	f, idx, fresh := c.claim("RememberKeyed", SlotValue)
	if !fresh && !changed {
		return slotValue[T](c, "RememberKeyed", f.g.slots[idx])
	}
	if !fresh {
		f.g.slots[idx].release(c)
	}
	v := calc()
	f.g.slots[idx] = Slot{Kind: SlotValue, Value: v}
	return v
}
