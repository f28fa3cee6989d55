package expr

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/phobologic/traitgraph/internal/value"
)

type operator struct {
	name  string
	unary bool
	apply func(st *value.Stack, hint value.Kind) error
}

var operators = map[string]*operator{}

func init() {
	for _, op := range []*operator{
		{name: "copy", apply: copyOp},
		binary("add", addOp),
		binary("sub", arith(func(a, b int) (int, error) { return a - b, nil }, func(a, b float32) float32 { return a - b })),
		binary("mul", arith(func(a, b int) (int, error) { return a * b, nil }, func(a, b float32) float32 { return a * b })),
		binary("div", arith(intDiv, func(a, b float32) float32 { return a / b })),
		binary("mod", arith(intMod, math32.Mod)),
		binary("min", arith(func(a, b int) (int, error) { return min(a, b), nil }, math32.Min)),
		binary("max", arith(func(a, b int) (int, error) { return max(a, b), nil }, math32.Max)),
		binary("and", logic(func(a, b bool) bool { return a && b })),
		binary("or", logic(func(a, b bool) bool { return a || b })),
		binary("eq", equality(true)),
		binary("neq", equality(false)),
		binary("lt", ordering(func(c int) bool { return c < 0 })),
		binary("lte", ordering(func(c int) bool { return c <= 0 })),
		binary("gt", ordering(func(c int) bool { return c > 0 })),
		binary("gte", ordering(func(c int) bool { return c >= 0 })),
		{name: "onlyif", apply: onlyIf(true)},
		{name: "onlyifnot", apply: onlyIf(false)},
		unary("floor", rounding(math32.Floor)),
		unary("ceil", rounding(math32.Ceil)),
		unary("round", rounding(math32.Round)),
		unary("abs", numeric(func(a int) int { return max(a, -a) }, math32.Abs)),
		unary("neg", numeric(func(a int) int { return -a }, func(a float32) float32 { return -a })),
		unary("not", func(a value.Value) (value.Value, error) { return value.BoolValue(!truthy(a)), nil }),
	} {
		operators[op.name] = op
	}
}

// binary wraps f so it pops the operand b and then the accumulator a,
// defaulting a to b's zero value.
func binary(name string, f func(a, b value.Value) (value.Value, error)) *operator {
	return &operator{name: name, apply: func(st *value.Stack, _ value.Kind) error {
		b, err := st.Pop()
		if err != nil {
			return err
		}
		a := st.PopDefault(b.Kind())
		r, err := f(a, b)
		if err != nil {
			return named(name, err)
		}
		st.Push(r)
		return nil
	}}
}

func unary(name string, f func(a value.Value) (value.Value, error)) *operator {
	return &operator{name: name, unary: true, apply: func(st *value.Stack, hint value.Kind) error {
		r, err := f(st.PopDefault(hint))
		if err != nil {
			return named(name, err)
		}
		st.Push(r)
		return nil
	}}
}

func named(op string, err error) error {
	var te *TypeError
	if errors.As(err, &te) && te.Op == "" {
		te.Op = op
	}
	return err
}

func copyOp(st *value.Stack, hint value.Kind) error {
	b, err := st.Pop()
	if err != nil {
		return err
	}
	st.PopDefault(hint)
	st.Push(b)
	return nil
}

func onlyIf(want bool) func(st *value.Stack, hint value.Kind) error {
	return func(st *value.Stack, hint value.Kind) error {
		cond, err := st.Pop()
		if err != nil {
			return err
		}
		a := st.PopDefault(hint)
		if truthy(cond) != want {
			a = value.Zero(a.Kind())
		}
		st.Push(a)
		return nil
	}
}

func addOp(a, b value.Value) (value.Value, error) {
	if a.Kind() == value.String || b.Kind() == value.String {
		return value.StringValue(a.String() + b.String()), nil
	}
	return arith(func(x, y int) (int, error) { return x + y, nil }, func(x, y float32) float32 { return x + y })(a, b)
}

// arith applies fi when both operands are integral (booleans count as 0/1)
// and ff otherwise. Text is rejected.
func arith(fi func(a, b int) (int, error), ff func(a, b float32) float32) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		if !isNumeric(a) || !isNumeric(b) {
			return value.Value{}, &TypeError{A: a, B: b}
		}
		if a.Kind() == value.Float || b.Kind() == value.Float {
			return value.FloatValue(ff(toFloat(a), toFloat(b))), nil
		}
		r, err := fi(toInt(a), toInt(b))
		if err != nil {
			return value.Value{}, err
		}
		return value.IntValue(r), nil
	}
}

func intDiv(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func intMod(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a % b, nil
}

func logic(f func(a, b bool) bool) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		return value.BoolValue(f(truthy(a), truthy(b))), nil
	}
}

func equality(want bool) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		var eq bool
		if isNumeric(a) && isNumeric(b) {
			eq = toFloat(a) == toFloat(b)
		} else {
			eq = a == b
		}
		return value.BoolValue(eq == want), nil
	}
}

func ordering(f func(c int) bool) func(a, b value.Value) (value.Value, error) {
	return func(a, b value.Value) (value.Value, error) {
		var c int
		switch {
		case isNumeric(a) && isNumeric(b):
			x, y := toFloat(a), toFloat(b)
			switch {
			case x < y:
				c = -1
			case x > y:
				c = 1
			}
		case a.Kind() == value.String && b.Kind() == value.String:
			x, y := a.String(), b.String()
			switch {
			case x < y:
				c = -1
			case x > y:
				c = 1
			}
		default:
			return value.Value{}, &TypeError{A: a, B: b}
		}
		return value.BoolValue(f(c)), nil
	}
}

func rounding(ff func(float32) float32) func(a value.Value) (value.Value, error) {
	return numeric(func(a int) int { return a }, ff)
}

func numeric(fi func(int) int, ff func(float32) float32) func(a value.Value) (value.Value, error) {
	return func(a value.Value) (value.Value, error) {
		switch a.Kind() {
		case value.Float:
			return value.FloatValue(ff(toFloat(a))), nil
		case value.Int, value.Bool:
			return value.IntValue(fi(toInt(a))), nil
		}
		return value.Value{}, &TypeError{A: a, B: a}
	}
}

func isNumeric(v value.Value) bool {
	switch v.Kind() {
	case value.Int, value.Float, value.Bool:
		return true
	}
	return false
}

func truthy(v value.Value) bool {
	switch v.Kind() {
	case value.Bool:
		b, _ := v.AsBool()
		return b
	case value.Int:
		i, _ := v.AsInt()
		return i != 0
	case value.Float:
		f, _ := v.AsFloat()
		return f != 0
	case value.String:
		s, _ := v.AsString()
		return s != ""
	}
	return false
}

func toFloat(v value.Value) float32 {
	c, _ := value.Convert(v, value.Float)
	f, _ := c.AsFloat()
	return f
}

func toInt(v value.Value) int {
	c, _ := value.Convert(v, value.Int)
	i, _ := c.AsInt()
	return i
}
