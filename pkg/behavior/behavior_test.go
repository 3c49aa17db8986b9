package behavior

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/figtree/pkg/scene"
)

func TestBindByIDThenName(t *testing.T) {
	r := NewRegistry()
	r.Register("app", "Button", Named("ByName", nil))
	r.Register("app", "1:1", Named("ByID", nil))
	r.Register("other", "Card", Named("Elsewhere", nil))

	root := scene.NewNode("Button")
	n, err := r.Bind("app", "1:1", "Button", root)
	if err != nil || n != 1 {
		t.Fatalf("Bind = %d, %v", n, err)
	}
	if !slices.Equal(root.Behaviors, []string{"ByID"}) {
		t.Errorf("behaviors = %v", root.Behaviors)
	}

	root = scene.NewNode("Button")
	r.Bind("app", "2:2", "Button", root)
	if !slices.Equal(root.Behaviors, []string{"ByName"}) {
		t.Errorf("behaviors = %v", root.Behaviors)
	}

	root = scene.NewNode("Card")
	if n, _ := r.Bind("app", "3:3", "Card", root); n != 0 || root.Behaviors != nil {
		t.Error("binders from another namespace must not apply")
	}
}

func TestBindRunsInOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string
	for _, name := range []string{"first", "second"} {
		r.Register("", "Card", Named(name, func(root *scene.Node) error {
			calls = append(calls, name)
			return nil
		}))
	}
	root := scene.NewNode("Card")
	if _, err := r.Bind("", "", "Card", root); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(calls, []string{"first", "second"}) || !slices.Equal(root.Behaviors, calls) {
		t.Errorf("calls = %v behaviors = %v", calls, root.Behaviors)
	}
}

func TestBindError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("", "Card", Named("Broken", func(*scene.Node) error { return boom }))
	if _, err := r.Bind("", "", "Card", scene.NewNode("Card")); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestKeys(t *testing.T) {
	r := NewRegistry()
	r.Register("app", "b", Named("x", nil))
	r.Register("app", "a", Named("x", nil))
	r.Register("lib", "c", Named("x", nil))
	if got := r.Keys("app"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys = %v", got)
	}
}
