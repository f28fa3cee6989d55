package document

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// literalEntities are document literals rather than XML entities. They are
// kept verbatim in Node.Text and attribute values so value.Parse sees them.
var literalEntities = map[string]string{
	"true":  "&true;",
	"false": "&false;",
}

// SyntaxError reports a malformed menu description.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: syntax error: %s", e.Line, e.Msg)
}

// frame is an element still open while decoding.
type frame struct {
	node   *Node
	text   []byte
	nested bool
}

// Parse builds a Node tree from a menu description. Every element keeps its
// children in document order; no tag is treated specially. Standard XML
// entities are decoded, &true; and &false; are not.
func Parse(ctx context.Context, source []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(source))
	decoder.Entity = literalEntities
	decoder.CharsetReader = charset.NewReaderLabel

	doc := &Node{}
	var stack []*frame

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, _ := decoder.InputPos()
		t, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(err)
		}

		switch se := t.(type) {
		case xml.StartElement:
			n := &Node{Tag: se.Name.Local, Line: line}
			for _, a := range se.Attr {
				n.Attrs = append(n.Attrs, Attr{Key: a.Name.Local, Value: a.Value})
			}
			parent := doc
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.nested = true
				parent = top.node
			}
			parent.Append(n)
			stack = append(stack, &frame{node: n})
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text = append(top.text, se...)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !top.nested {
				top.node.Text = strings.TrimSpace(string(top.text))
			}
		}
	}
	return doc, nil
}

func syntaxError(err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Line: se.Line, Msg: se.Msg}
	}
	return fmt.Errorf("parsing: %w", err)
}
