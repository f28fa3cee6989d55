// Package expr compiles the body of a trait node into a stack program whose
// evaluation yields the trait's value.
//
// A body is either a literal (<x>12</x>) or a sequence of operators, each
// contributing one operand:
//
//	<width>
//	  <copy src="parent()" trait="width"/>
//	  <div>2</div>
//	</width>
//
// Operands come from a reference (src + trait attributes), from nested
// operators evaluated on their own stack, or from literal text. A trait name
// ending in an underscore is a switch: the case is popped off the stack and
// appended to the name when the program runs.
package expr

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/phobologic/traitgraph/internal/document"
	"github.com/phobologic/traitgraph/internal/selector"
	"github.com/phobologic/traitgraph/internal/value"
)

type operandKind uint8

const (
	noOperand operandKind = iota
	literalOperand
	refOperand
	switchOperand
	nestedOperand
	missingOperand
)

type operand struct {
	kind   operandKind
	lit    value.Value
	name   string
	nested []instr
}

type instr struct {
	op      *operator
	line    int
	operand operand
}

// Program is a compiled trait body.
type Program struct {
	body []instr
	deps []string
}

// Dependencies returns the fully-qualified trait names the program reads, in
// first-use order. A switch contributes its name prefix.
func (p *Program) Dependencies() []string {
	return append([]string(nil), p.deps...)
}

// UnknownOperatorError reports an operator tag the language does not define.
type UnknownOperatorError struct {
	Tag  string
	Line int
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("line %d: unknown operator <%s>", e.Line, e.Tag)
}

// MalformedOperatorError reports an operator used with the wrong operands.
type MalformedOperatorError struct {
	Tag    string
	Line   int
	Reason string
}

func (e *MalformedOperatorError) Error() string {
	return fmt.Sprintf("line %d: <%s>: %s", e.Line, e.Tag, e.Reason)
}

// Compile compiles a trait node. References are resolved relative to the
// element that owns the trait, body's parent.
func Compile(body *document.Node) (*Program, error) {
	c := &compiler{owner: body.Parent, seen: make(map[string]struct{})}
	p := &Program{}

	if len(body.Children) == 0 {
		lit := operand{kind: missingOperand}
		if body.Text != "" {
			lit = operand{kind: literalOperand, lit: value.Parse(body.Text)}
		}
		p.body = []instr{{op: operators["copy"], line: body.Line, operand: lit}}
		return p, nil
	}

	seq, err := c.sequence(body.Children)
	if err != nil {
		return nil, fmt.Errorf("trait %s: %w", body.Tag, err)
	}
	p.body = seq
	p.deps = c.deps
	return p, nil
}

type compiler struct {
	owner *document.Node
	deps  []string
	seen  map[string]struct{}
}

func (c *compiler) sequence(nodes []*document.Node) ([]instr, error) {
	seq := make([]instr, 0, len(nodes))
	for _, n := range nodes {
		in, err := c.instruction(n)
		if err != nil {
			return nil, err
		}
		seq = append(seq, in)
	}
	return seq, nil
}

func (c *compiler) instruction(n *document.Node) (instr, error) {
	op, ok := operators[n.Tag]
	if !ok {
		return instr{}, &UnknownOperatorError{Tag: n.Tag, Line: n.Line}
	}
	in := instr{op: op, line: n.Line}

	src, hasSrc := n.Attr("src")
	name, hasTrait := n.Attr("trait")
	switch {
	case hasSrc != hasTrait:
		return instr{}, &MalformedOperatorError{Tag: n.Tag, Line: n.Line, Reason: "src and trait must be given together"}
	case hasSrc:
		opnd, err := c.reference(n, src, name)
		if err != nil {
			return instr{}, err
		}
		in.operand = opnd
	case len(n.Children) > 0:
		nested, err := c.sequence(n.Children)
		if err != nil {
			return instr{}, err
		}
		in.operand = operand{kind: nestedOperand, nested: nested}
	case n.Text != "":
		in.operand = operand{kind: literalOperand, lit: value.Parse(n.Text)}
	}

	if op.unary && in.operand.kind != noOperand {
		return instr{}, &MalformedOperatorError{Tag: n.Tag, Line: n.Line, Reason: "takes no operand"}
	}
	if !op.unary && in.operand.kind == noOperand {
		return instr{}, &MalformedOperatorError{Tag: n.Tag, Line: n.Line, Reason: "requires an operand"}
	}
	return in, nil
}

func (c *compiler) reference(n *document.Node, src, name string) (operand, error) {
	sel, isSelector, err := selector.ParseSource(src)
	if err != nil {
		return operand{}, fmt.Errorf("line %d: %w", n.Line, err)
	}
	base := src
	if isSelector {
		base = selector.Resolve(c.owner, sel)
	}
	if base == "" {
		glog.Warningf("line %d: %s resolves to no element; %s reads as zero", n.Line, src, name)
		return operand{kind: missingOperand}, nil
	}

	full := base + "." + name
	c.depend(full)
	if strings.HasSuffix(name, "_") {
		return operand{kind: switchOperand, name: full}, nil
	}
	return operand{kind: refOperand, name: full}, nil
}

func (c *compiler) depend(name string) {
	if _, dup := c.seen[name]; dup {
		return
	}
	c.seen[name] = struct{}{}
	c.deps = append(c.deps, name)
}
