// Package ui describes the capabilities a concrete UI element must expose to
// be driven by a trait graph.
package ui

import "github.com/phobologic/traitgraph/internal/value"

// MaxUserTraits is the number of user trait slots an element may expose.
const MaxUserTraits = 32

// Unimplemented is the user trait type of a slot the element does not have.
const Unimplemented = value.Invalid

// Element is a concrete UI widget. Trait values are pushed into it through
// the setters; user trait slots are typed per element.
type Element interface {
	Name() string
	SetName(name string)

	SetX(float32)
	SetY(float32)
	SetWidth(float32)
	SetHeight(float32)
	SetAlpha(int)
	SetLocus(bool)
	SetVisible(bool)
	SetMenufade(float32)
	SetExplorefade(float32)

	SetUserInt(index int, v int)
	SetUserFloat(index int, v float32)
	SetUserBool(index int, v bool)
	SetUserString(index int, v string)

	// UserTraitType reports the kind held by slot index, or Unimplemented.
	UserTraitType(index int) value.Kind

	// UserTraitSource returns a pointer (*int, *float32, *bool or *string)
	// to the element's own storage for slot index when the element supplies
	// that value itself, or nil.
	UserTraitSource(index int) any
}

// Factory creates the concrete element for a named document node.
type Factory func(tag, name string) (Element, error)
