// Package selector resolves trait selectors such as parent() or sibling(foo)
// to the fully-qualified names of elements in a menu document.
package selector

import (
	"fmt"
	"regexp"

	"github.com/phobologic/traitgraph/internal/document"
)

// Kind is the selector function name.
type Kind string

const (
	Child   Kind = "child"
	Last    Kind = "last"
	Me      Kind = "me"
	Parent  Kind = "parent"
	Screen  Kind = "screen"
	Sibling Kind = "sibling"
	Strings Kind = "strings"
)

var kinds = map[Kind]struct{}{
	Child: {}, Last: {}, Me: {}, Parent: {}, Screen: {}, Sibling: {}, Strings: {},
}

// Names of the implementation-defined pseudo-elements.
const (
	ScreenName  = "__screen"
	StringsName = "__strings"
)

var callRe = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Selector is a tokenized selector expression.
type Selector struct {
	Kind     Kind
	Argument string
	HasArg   bool
}

func (s Selector) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Argument)
}

// Tokenize matches text against name(argument?). It returns false when the
// text is not a call or the name is not a known selector kind; the caller
// then treats text as a plain element name.
func Tokenize(text string) (Selector, bool) {
	m := callRe.FindStringSubmatch(text)
	if m == nil {
		return Selector{}, false
	}
	k := Kind(m[1])
	if _, ok := kinds[k]; !ok {
		return Selector{}, false
	}
	return Selector{Kind: k, Argument: m[2], HasArg: m[2] != ""}, true
}

// UnknownKindError reports call syntax naming no known selector.
type UnknownKindError struct {
	Text string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown selector %q", e.Text)
}

// ParseSource interprets the src attribute of an operator. It returns
// isSelector=false for plain element names and an UnknownKindError for
// call syntax with an unrecognized name.
func ParseSource(text string) (sel Selector, isSelector bool, err error) {
	if sel, ok := Tokenize(text); ok {
		return sel, true, nil
	}
	if callRe.MatchString(text) {
		return Selector{}, false, &UnknownKindError{Text: text}
	}
	return Selector{}, false, nil
}

// Resolve returns the fully-qualified name sel denotes when evaluated from
// node, the element that owns the trait. An empty result means the selector
// names nothing; last() always resolves to "".
func Resolve(node *document.Node, sel Selector) string {
	switch sel.Kind {
	case Me:
		return FullyQualifiedName(node)
	case Parent:
		if node.Parent == nil {
			return ""
		}
		return FullyQualifiedName(node.Parent)
	case Child:
		if sel.HasArg {
			return FullyQualifiedName(findDescendant(node, sel.Argument))
		}
		return FullyQualifiedName(lastNamedChild(node))
	case Sibling:
		if sel.HasArg {
			return FullyQualifiedName(namedSibling(node, sel.Argument))
		}
		return FullyQualifiedName(previousNamedSibling(node))
	case Screen:
		return ScreenName
	case Strings:
		return StringsName
	case Last:
		return ""
	}
	return ""
}

// FullyQualifiedName joins the names of node and its ancestors with dots.
// The top-level container and unnamed nodes have no name.
func FullyQualifiedName(node *document.Node) string {
	if node == nil || node.IsDocument() {
		return ""
	}
	name, ok := node.Name()
	if !ok {
		return ""
	}
	if prefix := FullyQualifiedName(node.Parent); prefix != "" {
		return prefix + "." + name
	}
	return name
}

// findDescendant searches depth-first, last child first at each level.
func findDescendant(node *document.Node, name string) *document.Node {
	for i := len(node.Children) - 1; i >= 0; i-- {
		child := node.Children[i]
		if n, ok := child.Name(); ok && n == name {
			return child
		}
		if found := findDescendant(child, name); found != nil {
			return found
		}
	}
	return nil
}

func lastNamedChild(node *document.Node) *document.Node {
	for i := len(node.Children) - 1; i >= 0; i-- {
		if _, ok := node.Children[i].Name(); ok {
			return node.Children[i]
		}
	}
	return nil
}

func namedSibling(node *document.Node, name string) *document.Node {
	if own, ok := node.Name(); ok && own == name {
		return nil
	}
	if node.Parent == nil {
		return nil
	}
	for _, sib := range node.Parent.Children {
		if sib == node {
			continue
		}
		if n, ok := sib.Name(); ok && n == name {
			return sib
		}
	}
	return nil
}

func previousNamedSibling(node *document.Node) *document.Node {
	if node.Parent == nil {
		return nil
	}
	for i := node.Index() - 1; i >= 0; i-- {
		if _, ok := node.Parent.Children[i].Name(); ok {
			return node.Parent.Children[i]
		}
	}
	return nil
}
