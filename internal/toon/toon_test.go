package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/traitgraph/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "options/video.menu", "options/video.menu"},
		{"dotted name", "Main.play.user0", "Main.play.user0"},
		{"bool literal", "&true;", "&true;"},
		{"selector", "sibling(left)", "sibling(left)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	r := &model.Report{
		Root: "ui",
		Menus: []model.Menu{
			{
				Path:   "main.menu",
				Name:   "Main",
				Status: model.OK,
				Traits: []model.Trait{
					{Name: "Main.width", Type: "float", Value: "1280.0", Order: 0},
					{Name: "Main.play.visible", Type: "bool", Value: "&true;", Order: 1, Deps: []string{"Main.width", "__screen.width"}},
					{Name: "Main.play.user0", Type: "string", Value: "Play, now", Order: 2},
				},
				Edges: []model.Edge{
					{From: "Main.width", To: "Main.play.visible"},
				},
			},
			{
				Path:   "broken.menu",
				Status: model.Failed,
				Error:  "menu Broken: dependency cycle: a -> b -> a",
			},
		},
	}

	got := Encode(r)

	want := []string{
		"root: ui",
		"menus[2]{path,name,traits,status}:",
		"  main.menu,Main,3,ok",
		`  broken.menu,"",0,failed`,
		"traits[3]{menu,name,type,value,order,deps}:",
		"  Main,Main.width,float,1280.0,0,\"\"",
		"  Main,Main.play.visible,bool,&true;,1,Main.width __screen.width",
		`  Main,Main.play.user0,string,"Play, now",2,""`,
		"edges[1]{menu,from,to}:",
		"  Main,Main.width,Main.play.visible",
		"errors[1]{menu,error}:",
		`  broken.menu,"menu Broken: dependency cycle: a -> b -> a"`,
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Root: "empty"})
	if !strings.Contains(got, "menus[0]{path,name,traits,status}:") {
		t.Errorf("expected empty menus section, got:\n%s", got)
	}
	if !strings.Contains(got, "traits[0]{menu,name,type,value,order,deps}:") {
		t.Errorf("expected empty traits section, got:\n%s", got)
	}
	if strings.Contains(got, "errors[") {
		t.Errorf("errors section should be omitted, got:\n%s", got)
	}
}
