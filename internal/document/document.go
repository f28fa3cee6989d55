// Package document holds the hierarchical menu description tree that traits
// are declared in, and parses it from XML source.
package document

import (
	"path/filepath"
	"strings"
)

// Node is one element of a menu description. The node returned by Parse is
// the implicit top-level container: it has an empty Tag and no name.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Parent   *Node
	Text     string // trimmed content of leaf elements; &true; and &false; kept verbatim
	Line     int    // 1-based line of the start tag
}

// Attr is a single name="value" pair on a start tag.
type Attr struct {
	Key   string
	Value string
}

// Attr returns the value of the attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Name returns the node's name attribute. Unnamed nodes are trait or operator
// nodes rather than addressable elements.
func (n *Node) Name() (string, bool) {
	return n.Attr("name")
}

// IsDocument reports whether n is the implicit top-level container.
func (n *Node) IsDocument() bool {
	return n.Parent == nil
}

// Root walks up to the top-level container.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Index returns n's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

var menuExtensions = map[string]struct{}{
	".xml":  {},
	".menu": {},
}

// IsMenuFile reports whether path has a menu description extension.
func IsMenuFile(path string) bool {
	_, ok := menuExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
