// Package value defines the tagged value type that flows between traits and
// the operand stack used to evaluate trait expressions.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	String
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	}
	return "invalid"
}

// ParseKind maps a kind name as written in configuration back to a Kind.
// "unimplemented" and "" map to Invalid.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return Int, nil
	case "float":
		return Float, nil
	case "bool", "boolean":
		return Bool, nil
	case "string", "text":
		return String, nil
	case "", "unimplemented":
		return Invalid, nil
	}
	return Invalid, fmt.Errorf("unknown value kind %q", s)
}

// Reserved document tokens for boolean literals.
const (
	TrueLiteral  = "&true;"
	FalseLiteral = "&false;"
)

// Value is an immutable integer, float, boolean or text value.
type Value struct {
	kind Kind
	i    int
	f    float32
	b    bool
	s    string
}

// IntValue returns an Int value.
func IntValue(i int) Value { return Value{kind: Int, i: i} }

// FloatValue returns a Float value.
func FloatValue(f float32) Value { return Value{kind: Float, f: f} }

// BoolValue returns a Bool value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// Kind reports which member of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer v holds and whether v is an Int.
func (v Value) AsInt() (int, bool) { return v.i, v.kind == Int }

// AsFloat returns the float v holds and whether v is a Float.
func (v Value) AsFloat() (float32, bool) { return v.f, v.kind == Float }

// AsBool returns the boolean v holds and whether v is a Bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

// AsString returns the text v holds and whether v is a String.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// Zero returns the default value of kind k.
func Zero(k Kind) Value {
	return Value{kind: k}
}

// String returns the canonical text form of v: booleans as true/false and
// numbers in decimal.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.Itoa(v.i)
	case Float:
		return strconv.FormatFloat(float64(v.f), 'f', -1, 32)
	case Bool:
		return strconv.FormatBool(v.b)
	case String:
		return v.s
	}
	return ""
}

// Parse deduces the narrowest kind for text. Boolean literals win, then
// integers, then floats; both numeric forms must consume the whole token.
// Anything else is text, verbatim.
func Parse(text string) Value {
	switch text {
	case TrueLiteral:
		return BoolValue(true)
	case FalseLiteral:
		return BoolValue(false)
	}
	if i, err := strconv.Atoi(text); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(text, 32); err == nil {
		return FloatValue(float32(f))
	}
	return StringValue(text)
}

// Format renders v the way it would be written in a menu document, such that
// Parse(Format(v)) yields v again for every number and boolean.
func Format(v Value) string {
	switch v.kind {
	case Bool:
		if v.b {
			return TrueLiteral
		}
		return FalseLiteral
	case Float:
		s := v.String()
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	}
	return v.String()
}

// StringifyAndAppend appends the canonical text of v to prefix. Switch-case
// trait names are built this way.
func StringifyAndAppend(prefix string, v Value) string {
	return prefix + v.String()
}

// ConversionError reports a value that cannot be represented as another kind.
type ConversionError struct {
	From Value
	To   Kind
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %q to %s", e.From.kind, e.From.String(), e.To)
}

// Convert reinterprets v as kind k. Numbers convert between each other
// (floats truncate toward zero), booleans map to 1/0 and back via nonzero,
// everything converts to text, and text converts only if it parses as k.
func Convert(v Value, k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}
	switch k {
	case String:
		return StringValue(v.String()), nil
	case Int:
		switch v.kind {
		case Float:
			return IntValue(int(v.f)), nil
		case Bool:
			if v.b {
				return IntValue(1), nil
			}
			return IntValue(0), nil
		}
	case Float:
		switch v.kind {
		case Int:
			return FloatValue(float32(v.i)), nil
		case Bool:
			if v.b {
				return FloatValue(1), nil
			}
			return FloatValue(0), nil
		}
	case Bool:
		switch v.kind {
		case Int:
			return BoolValue(v.i != 0), nil
		case Float:
			return BoolValue(v.f != 0), nil
		}
	}
	if v.kind == String {
		if p := Parse(v.s); p.kind != String {
			return Convert(p, k)
		}
	}
	return Value{}, &ConversionError{From: v, To: k}
}
