// Package model defines the report traitgraph produces for a set of menus.
package model

// Status indicates whether a menu built and ticked cleanly.
type Status string

const (
	OK     Status = "ok"
	Failed Status = "failed"
)

// Trait is one evaluated trait of a menu.
type Trait struct {
	Name  string
	Type  string // int, float, bool or string
	Value string // document literal of the last computed value
	Order int    // position in evaluation order
	Deps  []string
}

// Edge is a wired dependency: To reads From.
type Edge struct {
	From string
	To   string
}

// Menu is the report for one menu file.
type Menu struct {
	Path   string
	Name   string
	Status Status
	Error  string
	Traits []Trait
	Edges  []Edge
}

// Report is the complete analysis, ready for serialization.
type Report struct {
	Root  string
	Menus []Menu
}
