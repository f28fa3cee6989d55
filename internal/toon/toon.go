// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/traitgraph/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var menuRows [][]string
	for i := range r.Menus {
		m := &r.Menus[i]
		menuRows = append(menuRows, []string{
			m.Path,
			m.Name,
			fmt.Sprintf("%d", len(m.Traits)),
			string(m.Status),
		})
	}
	parts = append(parts, formatTabular("menus", []string{"path", "name", "traits", "status"}, menuRows))

	var traitRows [][]string
	for i := range r.Menus {
		m := &r.Menus[i]
		for j := range m.Traits {
			tr := &m.Traits[j]
			traitRows = append(traitRows, []string{
				menuLabel(m),
				tr.Name,
				tr.Type,
				tr.Value,
				fmt.Sprintf("%d", tr.Order),
				strings.Join(tr.Deps, " "),
			})
		}
	}
	parts = append(parts, formatTabular("traits", []string{"menu", "name", "type", "value", "order", "deps"}, traitRows))

	var edgeRows [][]string
	for i := range r.Menus {
		m := &r.Menus[i]
		for j := range m.Edges {
			edgeRows = append(edgeRows, []string{menuLabel(m), m.Edges[j].From, m.Edges[j].To})
		}
	}
	parts = append(parts, formatTabular("edges", []string{"menu", "from", "to"}, edgeRows))

	var errorRows [][]string
	for i := range r.Menus {
		m := &r.Menus[i]
		if m.Status == model.Failed {
			errorRows = append(errorRows, []string{menuLabel(m), m.Error})
		}
	}
	if len(errorRows) > 0 {
		parts = append(parts, formatTabular("errors", []string{"menu", "error"}, errorRows))
	}

	return strings.Join(parts, "\n")
}

// menuLabel names a menu by its document name, or its path when the menu
// failed before it had one.
func menuLabel(m *model.Menu) string {
	if m.Name != "" {
		return m.Name
	}
	return m.Path
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
