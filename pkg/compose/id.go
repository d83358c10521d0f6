package compose

import "sync/atomic"

var globalIDCounter uint64

// nextID returns the next identifier for states, scopes and effect sites.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
