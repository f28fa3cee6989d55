package menu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/traitgraph/internal/document"
	"github.com/phobologic/traitgraph/internal/graph"
	"github.com/phobologic/traitgraph/internal/locale"
	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

// headless gives every element a text slot 0. Labels measure their own text,
// so they supply slot 0 themselves, and add an integer slot 1.
func headless(tag, name string) (ui.Element, error) {
	switch tag {
	case "label":
		h := ui.NewHeadless(tag, []value.Kind{value.String, value.Int})
		if err := h.Provide(0, value.StringValue("measured")); err != nil {
			return nil, err
		}
		return h, nil
	case "broken":
		return nil, errors.New("no such widget")
	}
	return ui.NewHeadless(tag, []value.Kind{value.String}), nil
}

func build(t *testing.T, src string, env graph.Env) (*Menu, error) {
	t.Helper()
	doc, err := document.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Build(context.Background(), doc, Options{Factory: headless, Env: env})
}

func element(t *testing.T, m *Menu, name string) *ui.Headless {
	t.Helper()
	el, ok := m.Element(name)
	if !ok {
		t.Fatalf("no element %s", name)
	}
	return el.(*ui.Headless)
}

const options = `<menu name="Options">
  <width><copy src="screen()" trait="width"/><sub src="screen()" trait="cropX"/><sub src="screen()" trait="cropX"/></width>
  <height>600</height>
  <rect name="left">
    <width><copy src="parent()" trait="width"/><div>2</div></width>
    <height><copy src="parent()" trait="height"/></height>
    <label name="title">
      <user1>1</user1>
      <width><copy src="parent()" trait="width"/></width>
      <visible><copy src="me()" trait="user1"/><eq>1</eq></visible>
    </label>
  </rect>
  <rect name="right">
    <x><copy src="sibling()" trait="width"/></x>
    <width><copy src="sibling(left)" trait="width"/></width>
    <user0><copy src="strings()" trait="sBack"/></user0>
    <shadow>3</shadow>
  </rect>
</menu>`

func TestBuildAndUpdate(t *testing.T) {
	t.Parallel()

	env := graph.Env{
		Screen:  ui.Screen{RawWidth: 1024, RawHeight: 768},
		Strings: locale.Table{"sBack": "Back"},
	}
	m, err := build(t, options, env)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Name() != "Options" {
		t.Errorf("Name = %q", m.Name())
	}
	wantElements := []string{"Options", "Options.left", "Options.left.title", "Options.right"}
	if diff := cmp.Diff(wantElements, m.Elements()); diff != "" {
		t.Errorf("elements (-want +got):\n%s", diff)
	}

	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// 1280 - 2*64 = 1152
	if got := element(t, m, "Options").Width; got != 1152 {
		t.Errorf("menu width = %v, want 1152", got)
	}
	left := element(t, m, "Options.left")
	if left.Width != 576 || left.Height != 600 {
		t.Errorf("left = %vx%v, want 576x600", left.Width, left.Height)
	}
	title := element(t, m, "Options.left.title")
	if title.Width != 576 || !title.Visible {
		t.Errorf("title width=%v visible=%v", title.Width, title.Visible)
	}
	right := element(t, m, "Options.right")
	if right.X != 576 || right.Width != 576 {
		t.Errorf("right x=%v width=%v, want 576 576", right.X, right.Width)
	}

	if got, _ := right.User(0); got != value.StringValue("Back") {
		t.Errorf("right user0 = %v, want Back", got)
	}
	if got, err := m.Traits().Value("Options.left.title.user0"); err != nil || got != value.StringValue("measured") {
		t.Errorf("provided user0 = %v, %v", got, err)
	}
	if _, err := m.Traits().Value("Options.right.shadow"); err == nil {
		t.Error("unknown tag became a trait")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		check func(error) bool
	}{
		{
			"unknown dependency",
			`<menu name="M"><x><copy src="M.nobody" trait="x"/></x></menu>`,
			func(err error) bool {
				var ud *graph.UnknownDependencyError
				return errors.As(err, &ud) && ud.Dependency == "M.nobody.x"
			},
		},
		{
			"cycle",
			`<menu name="M"><x><copy src="me()" trait="y"/></x><y><copy src="me()" trait="x"/></y></menu>`,
			func(err error) bool {
				var ce *graph.CycleError
				return errors.As(err, &ce)
			},
		},
		{
			"factory failure",
			`<menu name="M"><broken name="b"/></menu>`,
			func(err error) bool { return strings.Contains(err.Error(), "no such widget") },
		},
		{
			"no menu",
			`<menu><x>1</x></menu>`,
			func(err error) bool { return errors.Is(err, ErrNoMenu) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := build(t, tt.src, graph.Env{})
			if err == nil {
				t.Fatalf("expected error, got menu %s", m.Name())
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUpdateErrorNamesMenu(t *testing.T) {
	t.Parallel()

	m, err := build(t, `<menu name="M"><alpha><copy>1</copy><div>0</div></alpha></menu>`, graph.Env{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	err = m.Update()
	if err == nil || !strings.HasPrefix(err.Error(), "menu M: ") {
		t.Errorf("Update = %v", err)
	}
}

// TestBuildImageElement verifies that traits written inside an image element
// belong to it.
func TestBuildImageElement(t *testing.T) {
	t.Parallel()

	m, err := build(t, `<?xml version="1.0"?>
<menu name="M">
  <image name="i"><x>5</x></image>
</menu>`, graph.Env{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var names []string
	for _, v := range m.Traits().Vertices() {
		names = append(names, v.Name())
	}
	if diff := cmp.Diff([]string{"M.i.x"}, names); diff != "" {
		t.Errorf("traits (-want +got):\n%s", diff)
	}
	if x := element(t, m, "M.i").X; x != 5 {
		t.Errorf("M.i x = %v, want 5", x)
	}
	if x := element(t, m, "M").X; x != 0 {
		t.Errorf("M x = %v, want 0", x)
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	m, err := build(t, `<menu name="M"><rect name="r"><x>5</x></rect></menu>`, graph.Env{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m.Close()
	if err := m.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if x := element(t, m, "M.r").X; x != 0 {
		t.Errorf("closed menu pushed x=%v", x)
	}
}

func TestBuildCanceled(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse(context.Background(), []byte(`<menu name="M"/>`))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, doc, Options{Factory: headless}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.menu")
	if err := os.WriteFile(path, []byte(`<menu name="Main"><alpha>255</alpha></menu>`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(context.Background(), path, Options{Factory: headless})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Update(); err != nil {
		t.Fatal(err)
	}
	if a := element(t, m, "Main").Alpha; a != 255 {
		t.Errorf("alpha = %d", a)
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.menu"), Options{Factory: headless}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
