// Package focus narrows a report to the menus and traits a reader asked for.
package focus

import (
	"strings"

	"github.com/phobologic/traitgraph/internal/model"
)

// SelectMenus returns a new Report with only the first maxMenus menus.
// If maxMenus is <= 0 or >= len(menus), the report is returned as is.
func SelectMenus(r *model.Report, maxMenus int) *model.Report {
	if maxMenus <= 0 || maxMenus >= len(r.Menus) {
		return r
	}
	return &model.Report{Root: r.Root, Menus: r.Menus[:maxMenus]}
}

// FilterByMenu returns a new Report containing only menus whose name or path
// contains substr (case-insensitive).
func FilterByMenu(r *model.Report, substr string) *model.Report {
	lower := strings.ToLower(substr)
	var menus []model.Menu
	for i := range r.Menus {
		m := &r.Menus[i]
		if strings.Contains(strings.ToLower(m.Name), lower) ||
			strings.Contains(strings.ToLower(m.Path), lower) {
			menus = append(menus, *m)
		}
	}
	return &model.Report{Root: r.Root, Menus: menus}
}

// FilterByTrait returns a new Report keeping, per menu, the traits whose name
// contains substr (case-insensitive) together with their direct dependencies
// and dependents, and the edges between kept traits. Menus with no match are
// dropped.
func FilterByTrait(r *model.Report, substr string) *model.Report {
	lower := strings.ToLower(substr)
	var menus []model.Menu
	for i := range r.Menus {
		m := &r.Menus[i]

		matched := make(map[string]struct{})
		for j := range m.Traits {
			if strings.Contains(strings.ToLower(m.Traits[j].Name), lower) {
				matched[m.Traits[j].Name] = struct{}{}
			}
		}
		if len(matched) == 0 {
			continue
		}

		keep := make(map[string]struct{}, len(matched))
		for name := range matched {
			keep[name] = struct{}{}
		}
		for j := range m.Edges {
			e := &m.Edges[j]
			if _, ok := matched[e.From]; ok {
				keep[e.To] = struct{}{}
			}
			if _, ok := matched[e.To]; ok {
				keep[e.From] = struct{}{}
			}
		}

		out := model.Menu{Path: m.Path, Name: m.Name, Status: m.Status, Error: m.Error}
		for j := range m.Traits {
			if _, ok := keep[m.Traits[j].Name]; ok {
				out.Traits = append(out.Traits, m.Traits[j])
			}
		}
		for j := range m.Edges {
			e := &m.Edges[j]
			_, fromOK := keep[e.From]
			_, toOK := keep[e.To]
			if fromOK && toOK {
				out.Edges = append(out.Edges, *e)
			}
		}
		menus = append(menus, out)
	}
	return &model.Report{Root: r.Root, Menus: menus}
}
