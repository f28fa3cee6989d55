package ui

import (
	"fmt"

	"github.com/phobologic/traitgraph/internal/value"
)

// Headless is an Element without a renderer. It records the last value pushed
// through every setter, which makes it the concrete representative used when
// linting menus and in tests.
type Headless struct {
	Tag  string
	name string

	X, Y, Width, Height   float32
	Alpha                 int
	Locus, Visible        bool
	Menufade, Explorefade float32

	types    []value.Kind
	user     map[int]value.Value
	provided map[int]any
}

// NewHeadless creates an element whose user slots hold the given kinds; slot
// i is Unimplemented when types[i] is value.Invalid or i >= len(types).
func NewHeadless(tag string, types []value.Kind) *Headless {
	return &Headless{
		Tag:      tag,
		types:    types,
		user:     make(map[int]value.Value),
		provided: make(map[int]any),
	}
}

// Provide makes the element supply slot index itself, starting at v. It fails
// when v's kind does not match the slot.
func (h *Headless) Provide(index int, v value.Value) error {
	if h.UserTraitType(index) != v.Kind() {
		return fmt.Errorf("%s: user%d holds %s, not %s", h.Tag, index, h.UserTraitType(index), v.Kind())
	}
	switch v.Kind() {
	case value.Int:
		x, _ := v.AsInt()
		h.provided[index] = &x
	case value.Float:
		x, _ := v.AsFloat()
		h.provided[index] = &x
	case value.Bool:
		x, _ := v.AsBool()
		h.provided[index] = &x
	case value.String:
		x, _ := v.AsString()
		h.provided[index] = &x
	}
	return nil
}

// User returns the last value pushed into slot index.
func (h *Headless) User(index int) (value.Value, bool) {
	v, ok := h.user[index]
	return v, ok
}

// Name returns the element's fully-qualified name.
func (h *Headless) Name() string { return h.name }

// SetName sets the element's fully-qualified name.
func (h *Headless) SetName(name string) { h.name = name }

// SetX records the x position.
func (h *Headless) SetX(v float32) { h.X = v }

// SetY records the y position.
func (h *Headless) SetY(v float32) { h.Y = v }

// SetWidth records the width.
func (h *Headless) SetWidth(v float32) { h.Width = v }

// SetHeight records the height.
func (h *Headless) SetHeight(v float32) { h.Height = v }

// SetAlpha records the opacity.
func (h *Headless) SetAlpha(v int) { h.Alpha = v }

// SetLocus records whether the element takes input focus.
func (h *Headless) SetLocus(v bool) { h.Locus = v }

// SetVisible records whether the element is drawn.
func (h *Headless) SetVisible(v bool) { h.Visible = v }

// SetMenufade records the menu fade factor.
func (h *Headless) SetMenufade(v float32) { h.Menufade = v }

// SetExplorefade records the explore fade factor.
func (h *Headless) SetExplorefade(v float32) { h.Explorefade = v }

// SetUserInt records an integer pushed into slot index.
func (h *Headless) SetUserInt(index int, v int) { h.user[index] = value.IntValue(v) }

// SetUserFloat records a float pushed into slot index.
func (h *Headless) SetUserFloat(index int, v float32) { h.user[index] = value.FloatValue(v) }

// SetUserBool records a boolean pushed into slot index.
func (h *Headless) SetUserBool(index int, v bool) { h.user[index] = value.BoolValue(v) }

// SetUserString records text pushed into slot index.
func (h *Headless) SetUserString(index int, v string) { h.user[index] = value.StringValue(v) }

// UserTraitType returns the kind of slot index, or Unimplemented.
func (h *Headless) UserTraitType(index int) value.Kind {
	if index < 0 || index >= len(h.types) {
		return Unimplemented
	}
	return h.types[index]
}

// UserTraitSource returns the pointer behind a provided slot, or nil.
func (h *Headless) UserTraitSource(index int) any {
	return h.provided[index]
}
