package focus

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/traitgraph/internal/model"
)

func makeReport() *model.Report {
	return &model.Report{
		Root: "ui",
		Menus: []model.Menu{
			{
				Path:   "main.menu",
				Name:   "Main",
				Status: model.OK,
				Traits: []model.Trait{
					{Name: "Main.width", Type: "float", Value: "1280.0", Order: 0},
					{Name: "Main.play.width", Type: "float", Value: "640.0", Order: 1, Deps: []string{"Main.width"}},
					{Name: "Main.play.x", Type: "float", Value: "640.0", Order: 2, Deps: []string{"Main.play.width"}},
					{Name: "Main.alpha", Type: "int", Value: "255", Order: 3},
				},
				Edges: []model.Edge{
					{From: "Main.width", To: "Main.play.width"},
					{From: "Main.play.width", To: "Main.play.x"},
				},
			},
			{Path: "options/video.menu", Name: "Video", Status: model.OK},
			{Path: "broken.menu", Name: "Broken", Status: model.Failed, Error: "cycle"},
		},
	}
}

func TestSelectMenus(t *testing.T) {
	t.Parallel()

	rm := makeReport()
	if got := SelectMenus(rm, 0); got != rm {
		t.Error("maxMenus=0 should return the report unchanged")
	}
	if got := SelectMenus(rm, 10); got != rm {
		t.Error("maxMenus beyond length should return the report unchanged")
	}
	got := SelectMenus(rm, 2)
	if len(got.Menus) != 2 || got.Menus[1].Name != "Video" {
		t.Errorf("got %d menus", len(got.Menus))
	}
}

func TestFilterByMenu(t *testing.T) {
	t.Parallel()

	got := FilterByMenu(makeReport(), "OPTIONS")
	if len(got.Menus) != 1 || got.Menus[0].Name != "Video" {
		t.Errorf("path match: got %+v", got.Menus)
	}
	got = FilterByMenu(makeReport(), "bro")
	if len(got.Menus) != 1 || got.Menus[0].Status != model.Failed {
		t.Errorf("name match: got %+v", got.Menus)
	}
}

func TestFilterByTrait(t *testing.T) {
	t.Parallel()

	got := FilterByTrait(makeReport(), "play.WIDTH")
	if len(got.Menus) != 1 {
		t.Fatalf("got %d menus, want 1", len(got.Menus))
	}
	m := got.Menus[0]

	var names []string
	for _, tr := range m.Traits {
		names = append(names, tr.Name)
	}
	want := []string{"Main.width", "Main.play.width", "Main.play.x"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("traits (-want +got):\n%s", diff)
	}
	if len(m.Edges) != 2 {
		t.Errorf("got %d edges, want 2", len(m.Edges))
	}

	if got := FilterByTrait(makeReport(), "nothing"); len(got.Menus) != 0 {
		t.Errorf("expected no menus, got %d", len(got.Menus))
	}
}
