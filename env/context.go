package env

// Navigator exposes a domain term's substructure to the Context
// cursor.  Domains without substructure just don't use cursors.
type Navigator[T any] interface {
	// Down returns the i-th child, if any.
	Down(x T, i int) (T, bool)

	// Replace returns a new term with the i-th child replaced.
	// The argument is not modified.
	Replace(x T, i int, child T) T
}

type frame[T any] struct {
	parent T
	index  int
}

// Context bundles a term with an Environment and a cursor into the
// term's substructure.
//
// A Context is a value: the navigation operations return new
// Contexts and never modify the receiver.  Leaving and re-entering
// the cursor at the root round-trips to the original term.
type Context[T any] struct {
	nav   Navigator[T]
	env   Environment
	spine []frame[T]
	focus T
}

// NewContext makes a Context focused at the root of the term with an
// empty Environment.
func NewContext[T any](nav Navigator[T], x T) *Context[T] {
	return &Context[T]{
		nav:   nav,
		env:   New(),
		focus: x,
	}
}

// Env returns the context's Environment.
func (c *Context[T]) Env() Environment {
	return c.env
}

// WithEnv returns a Context with the given Environment.
func (c *Context[T]) WithEnv(env Environment) *Context[T] {
	acc := *c
	acc.env = env
	return &acc
}

// Focus is the term under the cursor.
func (c *Context[T]) Focus() T {
	return c.focus
}

// Location is the path of child indexes from the root to the cursor.
func (c *Context[T]) Location() []int {
	acc := make([]int, len(c.spine))
	for i, f := range c.spine {
		acc[i] = f.index
	}
	return acc
}

// Down moves the cursor to the i-th child of the focus.
func (c *Context[T]) Down(i int) (*Context[T], bool) {
	child, ok := c.nav.Down(c.focus, i)
	if !ok {
		return c, false
	}
	spine := make([]frame[T], len(c.spine)+1)
	copy(spine, c.spine)
	spine[len(c.spine)] = frame[T]{parent: c.focus, index: i}
	return &Context[T]{
		nav:   c.nav,
		env:   c.env,
		spine: spine,
		focus: child,
	}, true
}

// Up moves the cursor to the parent, rebuilding it around the
// (possibly replaced) focus.
func (c *Context[T]) Up() (*Context[T], bool) {
	if len(c.spine) == 0 {
		return c, false
	}
	f := c.spine[len(c.spine)-1]
	return &Context[T]{
		nav:   c.nav,
		env:   c.env,
		spine: c.spine[:len(c.spine)-1],
		focus: c.nav.Replace(f.parent, f.index, c.focus),
	}, true
}

// Top moves the cursor all the way to the root.
func (c *Context[T]) Top() *Context[T] {
	for 0 < len(c.spine) {
		c, _ = c.Up()
	}
	return c
}

// Term is the whole term: the root after rebuilding through the
// spine.
func (c *Context[T]) Term() T {
	return c.Top().focus
}

// SetFocus replaces the term under the cursor.
func (c *Context[T]) SetFocus(y T) *Context[T] {
	acc := *c
	acc.focus = y
	return &acc
}
