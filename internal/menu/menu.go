// Package menu instantiates one menu: a concrete element for every named
// node of a document and the trait graph that drives them.
package menu

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/phobologic/traitgraph/internal/document"
	"github.com/phobologic/traitgraph/internal/graph"
	"github.com/phobologic/traitgraph/internal/selector"
	"github.com/phobologic/traitgraph/internal/ui"
)

// ErrNoMenu is returned for a document without a named top-level element.
var ErrNoMenu = errors.New("no named top-level element")

// Options configures Build.
type Options struct {
	// Factory creates the concrete element for each named node.
	Factory ui.Factory
	Env     graph.Env
}

// Menu is a built menu. Like its graph, it belongs to one goroutine.
type Menu struct {
	name     string
	traits   *graph.Traits
	elements map[string]ui.Element
	names    []string
}

// Load reads and builds the menu described by the file at path.
func Load(ctx context.Context, path string, opts Options) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := document.Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := Build(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Build creates the elements and trait graph for the first named element of
// doc. Unnamed children of an element become its implementation or user
// traits; anything else is skipped. Configuration errors such as unknown
// dependencies and cycles fail the build.
func Build(ctx context.Context, doc *document.Node, opts Options) (*Menu, error) {
	top := doc
	if doc.IsDocument() {
		top = nil
		for _, c := range doc.Children {
			if _, ok := c.Name(); ok {
				top = c
				break
			}
		}
		if top == nil {
			return nil, ErrNoMenu
		}
	}

	m := &Menu{
		name:     selector.FullyQualifiedName(top),
		traits:   graph.New(opts.Env),
		elements: make(map[string]ui.Element),
	}
	if err := m.addElement(ctx, top, opts.Factory); err != nil {
		return nil, fmt.Errorf("menu %s: %w", m.name, err)
	}
	if err := m.traits.AddTraitDependencies(); err != nil {
		return nil, fmt.Errorf("menu %s: %w", m.name, err)
	}
	if _, err := m.traits.Sort(); err != nil {
		return nil, fmt.Errorf("menu %s: %w", m.name, err)
	}
	glog.V(1).Infof("menu %s: %d elements, %d traits", m.name, len(m.names), len(m.traits.Vertices()))
	return m, nil
}

func (m *Menu) addElement(ctx context.Context, node *document.Node, factory ui.Factory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := selector.FullyQualifiedName(node)
	el, err := factory(node.Tag, name)
	if err != nil {
		return fmt.Errorf("line %d: creating %s: %w", node.Line, name, err)
	}
	el.SetName(name)
	if _, dup := m.elements[name]; dup {
		glog.Warningf("menu %s: element %s defined twice", m.name, name)
	} else {
		m.names = append(m.names, name)
	}
	m.elements[name] = el

	for _, c := range node.Children {
		if _, named := c.Name(); named {
			if err := m.addElement(ctx, c, factory); err != nil {
				return err
			}
			continue
		}
		ok, err := m.traits.AddAndBindImplementationTrait(c, el)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		ok, err = m.traits.AddAndBindUserTrait(c, el)
		if err != nil {
			return err
		}
		if !ok {
			glog.V(2).Infof("%s: line %d: <%s> is not a trait of %s, skipping", m.name, c.Line, c.Tag, name)
		}
	}
	return m.traits.AddProvidedUserTraits(node, el)
}

// Name is the name of the menu's top-level element.
func (m *Menu) Name() string { return m.name }

// Update runs one tick: every trait is recomputed and pushed to its element.
func (m *Menu) Update() error {
	if err := m.traits.Update(); err != nil {
		return fmt.Errorf("menu %s: %w", m.name, err)
	}
	return nil
}

// Close detaches every element from the graph. Later updates still compute
// values but push nothing.
func (m *Menu) Close() {
	for _, name := range m.names {
		m.traits.Detach(m.elements[name])
	}
}

// Element returns the concrete element with the given fully-qualified name.
func (m *Menu) Element(name string) (ui.Element, bool) {
	el, ok := m.elements[name]
	return el, ok
}

// Elements returns the fully-qualified element names in document order.
func (m *Menu) Elements() []string {
	return append([]string(nil), m.names...)
}

// Traits returns the menu's dependency graph.
func (m *Menu) Traits() *graph.Traits { return m.traits }
