package trait

import (
	"errors"

	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

// ErrNullVertex is an internal consistency failure: a graph vertex holding no
// trait.
var ErrNullVertex = errors.New("null trait vertex")

// Vertex holds exactly one trait of any supported result type. The zero
// Vertex is the null vertex and only ever indicates a bug.
type Vertex struct {
	i *Trait[int]
	f *Trait[float32]
	b *Trait[bool]
	s *Trait[string]
}

// Of wraps t in a Vertex.
func Of[T value.Result](t *Trait[T]) Vertex {
	switch t := any(t).(type) {
	case *Trait[int]:
		return Vertex{i: t}
	case *Trait[float32]:
		return Vertex{f: t}
	case *Trait[bool]:
		return Vertex{b: t}
	case *Trait[string]:
		return Vertex{s: t}
	}
	return Vertex{}
}

// IsNull reports whether v holds no trait.
func (v Vertex) IsNull() bool {
	return v.i == nil && v.f == nil && v.b == nil && v.s == nil
}

// Kind is the result type of the held trait.
func (v Vertex) Kind() value.Kind {
	switch {
	case v.i != nil:
		return value.Int
	case v.f != nil:
		return value.Float
	case v.b != nil:
		return value.Bool
	case v.s != nil:
		return value.String
	}
	return value.Invalid
}

// Name returns the held trait's name, or "" for the null vertex.
func (v Vertex) Name() string {
	switch {
	case v.i != nil:
		return v.i.Name()
	case v.f != nil:
		return v.f.Name()
	case v.b != nil:
		return v.b.Name()
	case v.s != nil:
		return v.s.Name()
	}
	return ""
}

// Dependencies returns the names the held trait reads.
func (v Vertex) Dependencies() []string {
	switch {
	case v.i != nil:
		return v.i.Dependencies()
	case v.f != nil:
		return v.f.Dependencies()
	case v.b != nil:
		return v.b.Dependencies()
	case v.s != nil:
		return v.s.Dependencies()
	}
	return nil
}

// Update recomputes the held trait and pushes the result to its bindings.
func (v Vertex) Update() error {
	switch {
	case v.i != nil:
		return v.i.Update()
	case v.f != nil:
		return v.f.Update()
	case v.b != nil:
		return v.b.Update()
	case v.s != nil:
		return v.s.Update()
	}
	return ErrNullVertex
}

// Value returns the held trait's most recent result.
func (v Vertex) Value() value.Value {
	switch {
	case v.i != nil:
		return value.IntValue(v.i.Last())
	case v.f != nil:
		return value.FloatValue(v.f.Last())
	case v.b != nil:
		return value.BoolValue(v.b.Last())
	case v.s != nil:
		return value.StringValue(v.s.Last())
	}
	return value.Value{}
}

// SetSource lets el supply the held trait's value. See Trait.SetSource.
func (v Vertex) SetSource(el ui.Element) error {
	switch {
	case v.i != nil:
		return v.i.SetSource(el)
	case v.f != nil:
		return v.f.SetSource(el)
	case v.b != nil:
		return v.b.SetSource(el)
	case v.s != nil:
		return v.s.SetSource(el)
	}
	return ErrNullVertex
}

// Unbind removes the held trait's binding to el and reports whether it had one.
func (v Vertex) Unbind(el ui.Element) bool {
	switch {
	case v.i != nil:
		return v.i.Unbind(el)
	case v.f != nil:
		return v.f.Unbind(el)
	case v.b != nil:
		return v.b.Unbind(el)
	case v.s != nil:
		return v.s.Unbind(el)
	}
	return false
}

// Bound reports whether the held trait pushes into an element.
func (v Vertex) Bound() bool {
	switch {
	case v.i != nil:
		return v.i.Bound()
	case v.f != nil:
		return v.f.Bound()
	case v.b != nil:
		return v.b.Bound()
	case v.s != nil:
		return v.s.Bound()
	}
	return false
}
