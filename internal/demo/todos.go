package demo

import (
	"strconv"
	"strings"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/ui"
)

// TodosKey is the hydration key of the todo list.
const TodosKey = "todos"

// Todo is one item of the todo list.
type Todo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Todos is a keyed todo list. Items keep their row state across reorders
// and removals because rows are keyed by ID.
func Todos(c *compose.Composer) {
	items := compose.RememberSaveableState(c, TodosKey, []Todo(nil))
	draft := compose.RememberState(c, "")

	add := func(fields map[string]string) {
		title := strings.TrimSpace(fields["title"])
		if title == "" {
			title = strings.TrimSpace(draft.Peek())
		}
		if title == "" {
			return
		}
		items.Update(func(xs []Todo) []Todo {
			next := 1
			for _, t := range xs {
				if t.ID >= next {
					next = t.ID + 1
				}
			}
			return append(append([]Todo(nil), xs...), Todo{ID: next, Title: title})
		})
		draft.Set("")
	}

	layout(c, func() {
		ui.Form(c, add, ui.Modifier{}.Class("new-todo"), func() {
			ui.TextField(c, draft.Get(c), draft.Set, ui.Modifier{}, ui.TextFieldOptions{
				Name:        "title",
				Placeholder: "What needs doing?",
			})
		})

		list := items.Get(c)
		ui.WhenElse(c, len(list) == 0, func() {
			ui.Text(c, "Nothing to do.", ui.Modifier{}.Class("empty"))
		}, func() {
			ui.Column(c, ui.Modifier{}.Class("todos"), func() {
				ui.For(c, list, func(t Todo) any { return t.ID }, func(t Todo) {
					todoRow(c, t, items)
				})
			})
			ui.Text(c, remaining(list), ui.Modifier{}.Class("remaining"))
		})
	})
}

func todoRow(c *compose.Composer, t Todo, items *compose.State[[]Todo]) {
	m := ui.Modifier{}.Class("todo").Data("id", strconv.Itoa(t.ID))
	if t.Done {
		m = m.Class("done")
	}
	ui.Row(c, m, func() {
		ui.Text(c, t.Title, ui.Modifier{})
		ui.Button(c, func() { items.Update(func(xs []Todo) []Todo { return toggle(xs, t.ID) }) }, ui.Modifier{}, func() {
			ui.Text(c, "Toggle", ui.Modifier{})
		})
		ui.Button(c, func() { items.Update(func(xs []Todo) []Todo { return remove(xs, t.ID) }) }, ui.Modifier{}, func() {
			ui.Text(c, "Remove", ui.Modifier{})
		})
	})
}

func toggle(xs []Todo, id int) []Todo {
	out := append([]Todo(nil), xs...)
	for i := range out {
		if out[i].ID == id {
			out[i].Done = !out[i].Done
		}
	}
	return out
}

func remove(xs []Todo, id int) []Todo {
	out := make([]Todo, 0, len(xs))
	for _, t := range xs {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func remaining(xs []Todo) string {
	n := 0
	for _, t := range xs {
		if !t.Done {
			n++
		}
	}
	if n == 1 {
		return "1 item left"
	}
	return strconv.Itoa(n) + " items left"
}
