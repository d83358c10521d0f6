package compose

// localFrame is one provided value. Frames form a linked stack; a Composer
// points at its innermost frame.
type localFrame struct {
	local  any
	value  any
	parent *localFrame
}

// Local is a value provided to a subtree of the composition without being
// passed explicitly. Create locals once at package level.
type Local[T any] struct {
	name         string
	defaultValue T
	required     bool
}

// LocalOf creates a local that falls back to defaultValue when no ancestor
// provides it.
func LocalOf[T any](name string, defaultValue T) *Local[T] {
	return &Local[T]{name: name, defaultValue: defaultValue}
}

// RequiredLocalOf creates a local that must be provided by an ancestor.
func RequiredLocalOf[T any](name string) *Local[T] {
	return &Local[T]{name: name, required: true}
}

// Name returns the name given at creation.
func (l *Local[T]) Name() string {
	return l.name
}

// Provided pairs a local with a value for ProvideAll.
type Provided struct {
	local any
	value any
}

// Provides pairs the local with value.
func (l *Local[T]) Provides(value T) Provided {
	return Provided{local: l, value: value}
}

// Provide makes value visible to l.Current within content. The previous
// frame is restored when content returns or panics.
func (l *Local[T]) Provide(c *Composer, value T, content func()) {
	ProvideAll(c, []Provided{l.Provides(value)}, content)
}

// ProvideAll provides several locals for the duration of content.
func ProvideAll(c *Composer, values []Provided, content func()) {
	c.requireComposing("Provide")
	prev := c.locals
	defer func() { c.locals = prev }()

	for _, p := range values {
		c.locals = &localFrame{local: p.local, value: p.value, parent: c.locals}
	}
	content()
}

// Current returns the innermost provided value. It panics with a
// *ProviderError outside a pass or when a required local has no provider.
func (l *Local[T]) Current(c *Composer) T {
	v, err := l.Lookup(c)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup is Current returning the failure as an error.
func (l *Local[T]) Lookup(c *Composer) (T, error) {
	var zero T
	if !c.Composing() {
		return zero, noComposer(l.name)
	}
	for f := c.locals; f != nil; f = f.parent {
		if f.local == any(l) {
			v, _ := f.value.(T)
			return v, nil
		}
	}
	if l.required {
		return zero, missingProvider(l.name)
	}
	return l.defaultValue, nil
}

func baseFrame(values []Provided) *localFrame {
	var f *localFrame
	for _, p := range values {
		f = &localFrame{local: p.local, value: p.value, parent: f}
	}
	return f
}
