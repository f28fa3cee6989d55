// Package graph holds every trait of one menu, wires the dependencies between
// them and evaluates them in dependency order.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/phobologic/traitgraph/internal/document"
	"github.com/phobologic/traitgraph/internal/expr"
	"github.com/phobologic/traitgraph/internal/locale"
	"github.com/phobologic/traitgraph/internal/selector"
	"github.com/phobologic/traitgraph/internal/trait"
	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

// Env is the read-only context behind the screen() and strings()
// pseudo-elements.
type Env struct {
	Screen  ui.Screen
	Strings locale.Table
}

// ErrUnknownTrait is returned by Value for a name with no vertex.
var ErrUnknownTrait = errors.New("unknown trait")

// UnknownDependencyError reports a dependency naming no trait.
type UnknownDependencyError struct {
	Trait      string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("trait %s depends on unknown trait %s", e.Trait, e.Dependency)
}

// CycleError reports a set of traits that depend on each other. Path starts
// and ends with the same trait; each entry depends on the next.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// SelfSwitchError reports a trait that is itself one of the cases of a
// switch it reads.
type SelfSwitchError struct {
	Trait  string
	Switch string
}

func (e *SelfSwitchError) Error() string {
	return fmt.Sprintf("trait %s: switch %s selects itself", e.Trait, e.Switch)
}

// Edge is a dependency: To reads From.
type Edge struct {
	From string
	To   string
}

// Traits is the dependency graph of one menu. It is not safe for concurrent
// use.
type Traits struct {
	env      Env
	vertices []trait.Vertex
	indices  map[string]int
	out      []map[int]struct{}

	order  []int
	sorted bool
}

// New creates an empty graph evaluated against env.
func New(env Env) *Traits {
	return &Traits{env: env, indices: make(map[string]int)}
}

// AddTrait inserts v when ok is set.
func (g *Traits) AddTrait(v trait.Vertex, ok bool) {
	if !ok {
		return
	}
	name := v.Name()
	if _, dup := g.indices[name]; dup {
		glog.Warningf("trait %s defined twice; the last definition is referenced", name)
	}
	g.indices[name] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.out = append(g.out, nil)
	g.sorted = false
}

type binder func(g *Traits, node *document.Node, el ui.Element) (trait.Vertex, error)

func implementation[T value.Result](set func(ui.Element, T)) binder {
	return func(g *Traits, node *document.Node, el ui.Element) (trait.Vertex, error) {
		return compileAndBind(g, node, el, func(v T) { set(el, v) })
	}
}

var implementationTraits = map[string]binder{
	"x":           implementation(ui.Element.SetX),
	"y":           implementation(ui.Element.SetY),
	"width":       implementation(ui.Element.SetWidth),
	"height":      implementation(ui.Element.SetHeight),
	"alpha":       implementation(ui.Element.SetAlpha),
	"locus":       implementation(ui.Element.SetLocus),
	"visible":     implementation(ui.Element.SetVisible),
	"menufade":    implementation(ui.Element.SetMenufade),
	"explorefade": implementation(ui.Element.SetExplorefade),
}

// IsImplementationTrait reports whether tag names one of the properties every
// element supports.
func IsImplementationTrait(tag string) bool {
	_, ok := implementationTraits[tag]
	return ok
}

// AddAndBindImplementationTrait compiles node as the implementation trait its
// tag names and binds it to the matching setter of el. It returns false for
// any other tag.
func (g *Traits) AddAndBindImplementationTrait(node *document.Node, el ui.Element) (bool, error) {
	bind, ok := implementationTraits[node.Tag]
	if !ok {
		return false, nil
	}
	v, err := bind(g, node, el)
	if err != nil {
		return false, err
	}
	g.AddTrait(v, true)
	return true, nil
}

// AddAndBindUserTrait compiles node as the user trait slot its tag names,
// typed by what el declares for that slot. It returns false when the tag is
// not a user trait name or el does not implement the slot. A slot el supplies
// itself reads el's storage instead of the compiled body.
func (g *Traits) AddAndBindUserTrait(node *document.Node, el ui.Element) (bool, error) {
	index, ok := trait.UserTraitIndex(node.Tag)
	if !ok || index >= ui.MaxUserTraits {
		return false, nil
	}

	var v trait.Vertex
	var err error
	switch el.UserTraitType(index) {
	case value.Int:
		v, err = compileAndBind(g, node, el, func(x int) { el.SetUserInt(index, x) })
	case value.Float:
		v, err = compileAndBind(g, node, el, func(x float32) { el.SetUserFloat(index, x) })
	case value.Bool:
		v, err = compileAndBind(g, node, el, func(x bool) { el.SetUserBool(index, x) })
	case value.String:
		v, err = compileAndBind(g, node, el, func(x string) { el.SetUserString(index, x) })
	default:
		glog.V(1).Infof("%s: %s is unimplemented, skipping", el.Name(), node.Tag)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := v.SetSource(el); err != nil {
		return false, err
	}
	g.AddTrait(v, true)
	return true, nil
}

// AddProvidedUserTraits adds a trait for every user slot el supplies itself
// that the document did not already define for owner.
func (g *Traits) AddProvidedUserTraits(owner *document.Node, el ui.Element) error {
	prefix := selector.FullyQualifiedName(owner)
	for index := range ui.MaxUserTraits {
		if el.UserTraitSource(index) == nil {
			continue
		}
		name := fmt.Sprintf("%s.user%d", prefix, index)
		if _, exists := g.indices[name]; exists {
			continue
		}
		var v trait.Vertex
		var err error
		switch el.UserTraitType(index) {
		case value.Int:
			v, err = provided[int](name, el)
		case value.Float:
			v, err = provided[float32](name, el)
		case value.Bool:
			v, err = provided[bool](name, el)
		case value.String:
			v, err = provided[string](name, el)
		default:
			err = &trait.IncompatibleInterfaceError{Trait: name, Reason: "slot is provided but unimplemented"}
		}
		if err != nil {
			return err
		}
		g.AddTrait(v, true)
	}
	return nil
}

func provided[T value.Result](name string, el ui.Element) (trait.Vertex, error) {
	t := trait.New(name, func() (T, error) {
		var zero T
		return zero, nil
	})
	if err := t.SetSource(el); err != nil {
		return trait.Vertex{}, err
	}
	return trait.Of(t), nil
}

func compileAndBind[T value.Result](g *Traits, node *document.Node, el ui.Element, set func(T)) (trait.Vertex, error) {
	name := selector.FullyQualifiedName(node.Parent) + "." + node.Tag
	p, err := expr.Compile(node)
	if err != nil {
		return trait.Vertex{}, fmt.Errorf("%s: %w", name, err)
	}
	t := trait.New(name, expr.Fun[T](p, g.Value), p.Dependencies()...)
	t.Bind(el, set)
	return trait.Of(t), nil
}

// AddTraitDependencies adds an edge from every dependency to its dependent.
// A dependency ending in an underscore is a switch and fans in from every
// trait it prefixes. Screen and strings traits are created on first use.
// Unknown dependencies are collected and returned together. Calling it again
// adds no duplicate edges.
func (g *Traits) AddTraitDependencies() error {
	var result *multierror.Error
	// Pseudo-element vertices appended during the loop have no dependencies.
	for i := 0; i < len(g.vertices); i++ {
		v := g.vertices[i]
		if v.IsNull() {
			return fmt.Errorf("vertex %d: %w", i, trait.ErrNullVertex)
		}
		for _, dep := range v.Dependencies() {
			if _, exact := g.indices[dep]; !exact && strings.HasSuffix(dep, "_") {
				cases := g.cases(dep)
				if len(cases) == 0 {
					glog.Warningf("trait %s: switch %s has no cases", v.Name(), dep)
				}
				for _, from := range cases {
					if from == i {
						result = multierror.Append(result, &SelfSwitchError{Trait: v.Name(), Switch: dep})
						continue
					}
					g.addEdge(from, i)
				}
				continue
			}
			if from, ok := g.resolve(dep); ok {
				g.addEdge(from, i)
				continue
			}
			result = multierror.Append(result, &UnknownDependencyError{Trait: v.Name(), Dependency: dep})
		}
	}
	glog.V(1).Infof("graph: %d traits, %d edges", len(g.vertices), g.edgeCount())
	return result.ErrorOrNil()
}

func (g *Traits) addEdge(from, to int) {
	if g.out[from] == nil {
		g.out[from] = make(map[int]struct{})
	}
	if _, ok := g.out[from][to]; ok {
		return
	}
	g.out[from][to] = struct{}{}
	g.sorted = false
}

func (g *Traits) edgeCount() int {
	n := 0
	for _, tos := range g.out {
		n += len(tos)
	}
	return n
}

// resolve finds the vertex for name, creating screen and strings vertices
// on demand.
func (g *Traits) resolve(name string) (int, bool) {
	if i, ok := g.indices[name]; ok {
		return i, true
	}
	v, ok := g.pseudo(name)
	if !ok {
		return 0, false
	}
	glog.V(2).Infof("graph: adding %s", name)
	g.AddTrait(v, true)
	return g.indices[name], true
}

func (g *Traits) pseudo(name string) (trait.Vertex, bool) {
	base, leaf, ok := strings.Cut(name, ".")
	if !ok || leaf == "" {
		return trait.Vertex{}, false
	}
	switch base {
	case selector.ScreenName:
		var f func() float32
		switch leaf {
		case "width":
			f = g.env.Screen.Width
		case "height":
			f = g.env.Screen.Height
		case "cropX":
			f = g.env.Screen.CropX
		case "cropY":
			f = g.env.Screen.CropY
		default:
			return trait.Vertex{}, false
		}
		return trait.Of(trait.New(name, func() (float32, error) { return f(), nil })), true
	case selector.StringsName:
		table := g.env.Strings
		return trait.Of(trait.New(name, func() (string, error) { return table.Lookup(leaf), nil })), true
	}
	return trait.Vertex{}, false
}

// cases returns the vertices a switch prefix may select, in insertion order.
// Strings entries matching the prefix are materialized first.
func (g *Traits) cases(prefix string) []int {
	if leaf, ok := strings.CutPrefix(prefix, selector.StringsName+"."); ok {
		ids := make([]string, 0)
		for id := range g.env.Strings {
			if strings.HasPrefix(id, leaf) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			g.resolve(selector.StringsName + "." + id)
		}
	}

	var out []int
	for name, i := range g.indices {
		if strings.HasPrefix(name, prefix) {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Sort orders the traits so every dependency precedes its dependents. The
// order is kept until the graph changes.
func (g *Traits) Sort() ([]string, error) {
	if !g.sorted {
		order, err := g.topsort()
		if err != nil {
			return nil, err
		}
		g.order = order
		g.sorted = true
		glog.V(2).Infof("graph: sorted %d traits", len(order))
	}
	names := make([]string, len(g.order))
	for i, v := range g.order {
		names[i] = g.vertices[v].Name()
	}
	return names, nil
}

const (
	unvisited = iota
	visiting
	visited
)

type sorter struct {
	g     *Traits
	ins   [][]int
	state []int
	stack []int
	order []int
}

func (g *Traits) topsort() ([]int, error) {
	s := &sorter{
		g:     g,
		ins:   make([][]int, len(g.vertices)),
		state: make([]int, len(g.vertices)),
		order: make([]int, 0, len(g.vertices)),
	}
	for from, tos := range g.out {
		for to := range tos {
			s.ins[to] = append(s.ins[to], from)
		}
	}
	for _, deps := range s.ins {
		sort.Ints(deps)
	}
	for i := range g.vertices {
		if err := s.visit(i); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

func (s *sorter) visit(n int) error {
	switch s.state[n] {
	case visited:
		return nil
	case visiting:
		var path []string
		for i := len(s.stack) - 1; i >= 0; i-- {
			if s.stack[i] == n {
				for _, v := range s.stack[i:] {
					path = append(path, s.g.vertices[v].Name())
				}
				break
			}
		}
		return &CycleError{Path: append(path, s.g.vertices[n].Name())}
	}

	s.state[n] = visiting
	s.stack = append(s.stack, n)
	for _, dep := range s.ins[n] {
		if err := s.visit(dep); err != nil {
			return err
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.state[n] = visited
	s.order = append(s.order, n)
	return nil
}

// Update recomputes every trait in dependency order, sorting first if the
// graph changed. The first failing trait aborts the tick.
func (g *Traits) Update() error {
	if _, err := g.Sort(); err != nil {
		return err
	}
	for _, i := range g.order {
		if err := g.vertices[i].Update(); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the last computed value of the named trait.
func (g *Traits) Value(name string) (value.Value, error) {
	i, ok := g.indices[name]
	if !ok {
		return value.Value{}, fmt.Errorf("%w %s", ErrUnknownTrait, name)
	}
	return g.vertices[i].Value(), nil
}

// Vertices returns the traits in insertion order.
func (g *Traits) Vertices() []trait.Vertex {
	return append([]trait.Vertex(nil), g.vertices...)
}

// Edges returns every dependency edge, ordered by dependency and then
// dependent insertion order.
func (g *Traits) Edges() []Edge {
	var edges []Edge
	for from, tos := range g.out {
		targets := make([]int, 0, len(tos))
		for to := range tos {
			targets = append(targets, to)
		}
		sort.Ints(targets)
		for _, to := range targets {
			edges = append(edges, Edge{From: g.vertices[from].Name(), To: g.vertices[to].Name()})
		}
	}
	return edges
}

// Dependencies returns the names of the traits name reads after wiring,
// with switch prefixes expanded to their cases.
func (g *Traits) Dependencies(name string) []string {
	to, ok := g.indices[name]
	if !ok {
		return nil
	}
	var deps []string
	for from, tos := range g.out {
		if _, ok := tos[to]; ok {
			deps = append(deps, g.vertices[from].Name())
		}
	}
	return deps
}

// Detach drops every binding to el, so later updates no longer push into
// it. It returns the number of traits unbound.
func (g *Traits) Detach(el ui.Element) int {
	n := 0
	for _, v := range g.vertices {
		if v.Unbind(el) {
			n++
		}
	}
	return n
}
