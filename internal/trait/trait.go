// Package trait implements the dynamic representative of a single named,
// typed UI property: a deferred computation plus an optional push target on a
// concrete element.
package trait

import (
	"errors"
	"fmt"

	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

// Fun is a deferred trait computation. Any names it reads must be declared
// alongside it as dependencies.
type Fun[T value.Result] func() (T, error)

// ErrAlreadySourced is returned when a trait's computation would be replaced
// a second time.
var ErrAlreadySourced = errors.New("trait source already set")

// IncompatibleInterfaceError reports a trait that cannot read its value from
// an element's user trait slot.
type IncompatibleInterfaceError struct {
	Trait  string
	Reason string
}

func (e *IncompatibleInterfaceError) Error() string {
	return fmt.Sprintf("trait %s: incompatible interface: %s", e.Trait, e.Reason)
}

// Trait is one named property of result type T.
type Trait[T value.Result] struct {
	name    string
	compute Fun[T]
	deps    []string

	owner ui.Element
	set   func(T)

	sourced bool
	last    T
}

// New creates a trait computed by fn, which reads the named dependencies.
func New[T value.Result](name string, fn Fun[T], deps ...string) *Trait[T] {
	return &Trait[T]{name: name, compute: fn, deps: deps}
}

// Const creates a trait that always yields v.
func Const[T value.Result](name string, v T) *Trait[T] {
	return New(name, func() (T, error) { return v, nil })
}

// Name returns the trait's fully-qualified name.
func (t *Trait[T]) Name() string { return t.name }

// Dependencies returns the names the computation reads, in declaration order.
func (t *Trait[T]) Dependencies() []string {
	return append([]string(nil), t.deps...)
}

// Bind makes Update push every computed value into el through set.
func (t *Trait[T]) Bind(el ui.Element, set func(T)) {
	t.owner = el
	t.set = set
}

// Unbind drops the push target if it is el. It reports whether it did.
func (t *Trait[T]) Unbind(el ui.Element) bool {
	if t.owner == nil || t.owner != el {
		return false
	}
	t.owner = nil
	t.set = nil
	return true
}

// Bound reports whether the trait has a push target.
func (t *Trait[T]) Bound() bool { return t.set != nil }

// SetSource redirects the computation to read el's own storage for the user
// trait slot this trait is named after. A nil slot leaves the trait as is.
func (t *Trait[T]) SetSource(el ui.Element) error {
	index, ok := UserTraitIndex(t.name)
	if !ok {
		return &IncompatibleInterfaceError{Trait: t.name, Reason: "not a user trait"}
	}
	slot := el.UserTraitSource(index)
	if isNilSlot(slot) {
		return nil
	}
	p, ok := slot.(*T)
	if !ok {
		return &IncompatibleInterfaceError{
			Trait:  t.name,
			Reason: fmt.Sprintf("slot %d is %T, trait is %s", index, slot, value.KindOf[T]()),
		}
	}
	if t.sourced {
		return fmt.Errorf("trait %s: %w", t.name, ErrAlreadySourced)
	}
	t.sourced = true
	t.compute = func() (T, error) { return *p, nil }
	t.deps = nil
	return nil
}

// Sourced reports whether SetSource replaced the computation.
func (t *Trait[T]) Sourced() bool { return t.sourced }

// Invoke runs the computation.
func (t *Trait[T]) Invoke() (T, error) {
	return t.compute()
}

// Update recomputes the trait, remembers the result for dependents and pushes
// it into the bound element, if any.
func (t *Trait[T]) Update() error {
	v, err := t.Invoke()
	if err != nil {
		return fmt.Errorf("trait %s: %w", t.name, err)
	}
	t.last = v
	if t.set != nil {
		t.set(v)
	}
	return nil
}

// Last returns the result of the most recent Update.
func (t *Trait[T]) Last() T { return t.last }

func isNilSlot(slot any) bool {
	switch p := slot.(type) {
	case nil:
		return true
	case *int:
		return p == nil
	case *float32:
		return p == nil
	case *bool:
		return p == nil
	case *string:
		return p == nil
	}
	return false
}
