package vdom

import "testing"

func TestHIDGenerator(t *testing.T) {
	gen := NewHIDGenerator()

	t.Run("sequential generation", func(t *testing.T) {
		for _, want := range []string{"h1", "h2", "h3"} {
			if got := gen.Next(); got != want {
				t.Errorf("Next() = %v, want %v", got, want)
			}
		}
	})

	t.Run("reset", func(t *testing.T) {
		gen := NewHIDGenerator()
		gen.Next()
		gen.Next()
		gen.Reset()

		if gen.Current() != 0 {
			t.Errorf("After reset, Current() = %v, want 0", gen.Current())
		}
		if h1 := gen.Next(); h1 != "h1" {
			t.Errorf("After reset, Next() = %v, want h1", h1)
		}
	})
}

func TestAssignHIDs(t *testing.T) {
	click := func() {}
	tree := Element("div", nil,
		Element("h1", nil, Text("Title")),
		Element("button", Props{"onclick": click}, Text("Click")),
		Element("input", Props{"oninput": func(string) {}}),
	)

	AssignHIDs(tree, NewHIDGenerator())

	if tree.HID != "" || tree.Children[0].HID != "" {
		t.Error("non-interactive elements got HIDs")
	}
	if tree.Children[1].HID != "h1" {
		t.Errorf("button HID = %v, want h1", tree.Children[1].HID)
	}
	if tree.Children[2].HID != "h2" {
		t.Errorf("input HID = %v, want h2", tree.Children[2].HID)
	}
	if CountInteractive(tree) != 2 {
		t.Errorf("CountInteractive() = %d, want 2", CountInteractive(tree))
	}
	if FindByHID(tree, "h2") != tree.Children[2] {
		t.Error("FindByHID(h2) did not return the input")
	}

	handlers := CollectHandlers(tree)
	if len(handlers) != 2 {
		t.Fatalf("CollectHandlers() returned %d handlers, want 2", len(handlers))
	}
	if _, ok := handlers["h1_onclick"]; !ok {
		t.Error("missing h1_onclick")
	}
	if _, ok := handlers["h2_oninput"]; !ok {
		t.Error("missing h2_oninput")
	}
}

func TestAssignHIDsIsDeterministic(t *testing.T) {
	build := func() *VNode {
		return Element("form", Props{"onsubmit": func() {}},
			Element("button", Props{"onclick": func() {}}),
		)
	}
	a, b := build(), build()
	AssignHIDs(a, NewHIDGenerator())
	AssignHIDs(b, NewHIDGenerator())
	if a.HID != b.HID || a.Children[0].HID != b.Children[0].HID {
		t.Errorf("HIDs differ: %s/%s vs %s/%s", a.HID, a.Children[0].HID, b.HID, b.Children[0].HID)
	}
}
