package trait

import (
	"errors"
	"testing"

	"github.com/phobologic/traitgraph/internal/ui"
	"github.com/phobologic/traitgraph/internal/value"
)

func TestUserTraitIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		want  int
		valid bool
	}{
		{"user0", 0, true},
		{"user123456789", 123456789, true},
		{"user007", 7, true},
		{"Menu.user5", 5, true},
		{"Menu.button.user12", 12, true},
		{"UsEr5", 0, false},
		{"user", 0, false},
		{"kitten3", 0, false},
		{"", 0, false},
		{"user-1", 0, false},
		{"user1x", 0, false},
		{"user5.x", 0, false},
	}

	for _, tt := range tests {
		got, ok := UserTraitIndex(tt.in)
		if ok != tt.valid || got != tt.want {
			t.Errorf("UserTraitIndex(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.valid)
		}
	}
}

func TestConstInvoke(t *testing.T) {
	t.Parallel()

	tr := Const("Menu.x", float32(12))
	got, err := tr.Invoke()
	if err != nil || got != 12 {
		t.Errorf("Invoke = %v, %v", got, err)
	}
	if len(tr.Dependencies()) != 0 {
		t.Errorf("constant should have no dependencies, got %v", tr.Dependencies())
	}
}

func TestUpdatePushesToBinding(t *testing.T) {
	t.Parallel()

	el := ui.NewHeadless("rect", nil)
	n := 0
	tr := New("Menu.alpha", func() (int, error) {
		n++
		return n * 10, nil
	}, "Menu.other")
	tr.Bind(el, el.SetAlpha)

	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if el.Alpha != 10 || tr.Last() != 10 {
		t.Errorf("after first update: alpha %d, last %d", el.Alpha, tr.Last())
	}
	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if el.Alpha != 20 {
		t.Errorf("after second update: alpha %d", el.Alpha)
	}

	if tr.Unbind(ui.NewHeadless("rect", nil)) {
		t.Error("Unbind of a different element should be a no-op")
	}
	if !tr.Unbind(el) || tr.Bound() {
		t.Error("Unbind(el) should drop the binding")
	}
	if err := tr.Update(); err != nil {
		t.Fatalf("unbound Update: %v", err)
	}
	if el.Alpha != 20 {
		t.Errorf("unbound update should not push, alpha %d", el.Alpha)
	}
}

func TestUpdateError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tr := New("Menu.x", func() (float32, error) { return 0, boom })
	if err := tr.Update(); !errors.Is(err, boom) {
		t.Errorf("Update error = %v", err)
	}
}

func TestSetSource(t *testing.T) {
	t.Parallel()

	el := ui.NewHeadless("text", []value.Kind{value.String, value.Float, value.Float})
	if err := el.Provide(1, value.FloatValue(42)); err != nil {
		t.Fatal(err)
	}

	t.Run("reads slot", func(t *testing.T) {
		t.Parallel()
		tr := Const("Menu.text.user1", float32(0))
		if err := tr.SetSource(el); err != nil {
			t.Fatalf("SetSource: %v", err)
		}
		got, _ := tr.Invoke()
		if got != 42 || !tr.Sourced() {
			t.Errorf("Invoke = %v, sourced %v", got, tr.Sourced())
		}
		if err := tr.SetSource(el); !errors.Is(err, ErrAlreadySourced) {
			t.Errorf("second SetSource = %v", err)
		}
	})

	t.Run("nil slot is a no-op", func(t *testing.T) {
		t.Parallel()
		tr := Const("Menu.text.user2", float32(7))
		if err := tr.SetSource(el); err != nil {
			t.Fatalf("SetSource: %v", err)
		}
		got, _ := tr.Invoke()
		if got != 7 || tr.Sourced() {
			t.Errorf("Invoke = %v, sourced %v", got, tr.Sourced())
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()
		tr := Const("Menu.text.user1", "")
		var iie *IncompatibleInterfaceError
		if err := tr.SetSource(el); !errors.As(err, &iie) {
			t.Errorf("expected IncompatibleInterfaceError, got %v", err)
		}
	})

	t.Run("not a user trait", func(t *testing.T) {
		t.Parallel()
		tr := Const("Menu.text.width", float32(0))
		var iie *IncompatibleInterfaceError
		if err := tr.SetSource(el); !errors.As(err, &iie) {
			t.Errorf("expected IncompatibleInterfaceError, got %v", err)
		}
	})
}

func TestVertexDispatch(t *testing.T) {
	t.Parallel()

	vs := []Vertex{
		Of(Const("a", 1)),
		Of(Const("b", float32(2.5))),
		Of(Const("c", true)),
		Of(New("d", func() (string, error) { return "hi", nil }, "a", "c")),
	}
	wantKinds := []value.Kind{value.Int, value.Float, value.Bool, value.String}
	wantValues := []value.Value{value.IntValue(1), value.FloatValue(2.5), value.BoolValue(true), value.StringValue("hi")}

	for i, v := range vs {
		if v.IsNull() {
			t.Fatalf("vertex %d is null", i)
		}
		if v.Kind() != wantKinds[i] {
			t.Errorf("vertex %d kind = %s", i, v.Kind())
		}
		if err := v.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if v.Value() != wantValues[i] {
			t.Errorf("vertex %s value = %v", v.Name(), v.Value())
		}
	}
	if deps := vs[3].Dependencies(); len(deps) != 2 || deps[0] != "a" || deps[1] != "c" {
		t.Errorf("deps = %v", deps)
	}

	var null Vertex
	if !null.IsNull() || !errors.Is(null.Update(), ErrNullVertex) {
		t.Error("zero Vertex should be null and fail Update")
	}
}
