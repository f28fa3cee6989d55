package value

import "fmt"

// EmptyStackError is returned when popping an empty Stack without a default.
type EmptyStackError struct{}

func (EmptyStackError) Error() string { return "pop from empty stack" }

// Stack is the LIFO operand stack of a single expression evaluation.
type Stack struct {
	items []Value
}

// Push places v on top of the stack.
func (s *Stack) Push(v Value) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (Value, error) {
	if len(s.items) == 0 {
		return Value{}, EmptyStackError{}
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

// PopDefault removes and returns the top value, or the zero value of hint if
// the stack is empty.
func (s *Stack) PopDefault(hint Kind) Value {
	v, err := s.Pop()
	if err != nil {
		return Zero(hint)
	}
	return v
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int { return len(s.items) }

func (s *Stack) String() string {
	return fmt.Sprint(s.items)
}
