package expr

import (
	"errors"
	"fmt"

	"github.com/phobologic/traitgraph/internal/trait"
	"github.com/phobologic/traitgraph/internal/value"
)

// Lookup returns the current value of the trait with the given
// fully-qualified name.
type Lookup func(name string) (value.Value, error)

// ErrDivisionByZero is returned by integer div and mod with a zero divisor.
var ErrDivisionByZero = errors.New("integer division by zero")

// TypeError reports operands an operator cannot combine.
type TypeError struct {
	Op   string
	A, B value.Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: cannot combine %s %q and %s %q", e.Op, e.A.Kind(), e.A, e.B.Kind(), e.B)
}

// Eval runs the program. hint is the kind of the trait being computed; it
// types the zero values substituted for missing operands and an empty stack.
func (p *Program) Eval(lookup Lookup, hint value.Kind) (value.Value, error) {
	var st value.Stack
	if err := run(p.body, &st, lookup, hint); err != nil {
		return value.Value{}, err
	}
	return st.PopDefault(hint), nil
}

// Fun adapts p to a trait computation of result type T.
func Fun[T value.Result](p *Program, lookup Lookup) trait.Fun[T] {
	return func() (T, error) {
		v, err := p.Eval(lookup, value.KindOf[T]())
		if err != nil {
			var zero T
			return zero, err
		}
		return value.To[T](v)
	}
}

func run(seq []instr, st *value.Stack, lookup Lookup, hint value.Kind) error {
	for _, in := range seq {
		if err := push(in, st, lookup, hint); err != nil {
			return fmt.Errorf("line %d: <%s>: %w", in.line, in.op.name, err)
		}
		if err := in.op.apply(st, hint); err != nil {
			return fmt.Errorf("line %d: <%s>: %w", in.line, in.op.name, err)
		}
	}
	return nil
}

func push(in instr, st *value.Stack, lookup Lookup, hint value.Kind) error {
	switch in.operand.kind {
	case literalOperand:
		st.Push(in.operand.lit)
	case missingOperand:
		st.Push(value.Zero(hint))
	case refOperand:
		v, err := lookup(in.operand.name)
		if err != nil {
			return err
		}
		st.Push(v)
	case switchOperand:
		c, err := st.Pop()
		if err != nil {
			return fmt.Errorf("switch %s: no case value: %w", in.operand.name, err)
		}
		v, err := lookup(value.StringifyAndAppend(in.operand.name, c))
		if err != nil {
			return err
		}
		st.Push(v)
	case nestedOperand:
		var sub value.Stack
		if err := run(in.operand.nested, &sub, lookup, hint); err != nil {
			return err
		}
		st.Push(sub.PopDefault(hint))
	}
	return nil
}
