package value

// Result is the set of Go types a trait can compute.
type Result interface {
	int | float32 | bool | string
}

// KindOf returns the Kind that stores a T.
func KindOf[T Result]() Kind {
	var zero T
	switch any(zero).(type) {
	case int:
		return Int
	case float32:
		return Float
	case bool:
		return Bool
	case string:
		return String
	}
	return Invalid
}

// From wraps a Go value in a Value.
func From[T Result](t T) Value {
	switch x := any(t).(type) {
	case int:
		return IntValue(x)
	case float32:
		return FloatValue(x)
	case bool:
		return BoolValue(x)
	case string:
		return StringValue(x)
	}
	return Value{}
}

// To converts v to kind T and unwraps it.
func To[T Result](v Value) (T, error) {
	var zero T
	c, err := Convert(v, KindOf[T]())
	if err != nil {
		return zero, err
	}
	var out any
	switch c.kind {
	case Int:
		out = c.i
	case Float:
		out = c.f
	case Bool:
		out = c.b
	case String:
		out = c.s
	}
	return out.(T), nil
}
