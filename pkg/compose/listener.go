package compose

// Listener is anything that can be notified when a dependency changes.
// It is implemented by restartable scopes and derived states.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for subscriber deduplication.
	ID() uint64
}

// Cleanup is returned by a DisposableEffect setup and runs when the effect
// restarts or leaves the composition.
type Cleanup func()

// Tracker records observable reads. The active *Composer is a Tracker, and
// derived states pass their own Tracker to their calculation.
type Tracker interface {
	RecordRead(o Observable)
}

// Observable is a readable value that listeners can subscribe to.
type Observable interface {
	ID() uint64
	observers() *observableBase
}

// Forgettable values are told when the slot that remembered them is
// released from the composition.
type Forgettable interface {
	OnForgotten()
}
