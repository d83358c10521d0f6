package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/summon-dev/summon/pkg/compose"
	"github.com/summon-dev/summon/pkg/vdom"
)

func newTestRenderer() *HTMLRenderer {
	return NewHTMLRenderer(HTMLConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestColumnOfTexts(t *testing.T) {
	root := func(c *compose.Composer) {
		r := Current(c)
		r.RenderColumn(c, Modifier{}, func() {
			r.RenderText(c, "A", Modifier{})
			r.RenderText(c, "B", Modifier{})
		})
	}

	first, err := newTestRenderer().RenderComposableRoot(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newTestRenderer().RenderComposableRoot(root)
	if err != nil {
		t.Fatal(err)
	}

	want := `<div style="display:flex;flex-direction:column"><span>A</span><span>B</span></div>`
	if first != want {
		t.Errorf("markup = %s\nwant     %s", first, want)
	}
	if first != second {
		t.Error("two renders of the same composition differ")
	}
	if strings.Index(first, "A") > strings.Index(first, "B") {
		t.Error("A does not precede B")
	}
}

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name string
		root func(c *compose.Composer, r PlatformRenderer)
		want string
	}{
		{
			name: "escaped text",
			root: func(c *compose.Composer, r PlatformRenderer) { r.RenderText(c, `<b>"x"</b>`, Modifier{}) },
			want: `<span>&lt;b&gt;&quot;x&quot;&lt;/b&gt;</span>`,
		},
		{
			name: "raw",
			root: func(c *compose.Composer, r PlatformRenderer) { r.RenderRaw(c, "<hr>") },
			want: `<hr>`,
		},
		{
			name: "row with modifier",
			root: func(c *compose.Composer, r PlatformRenderer) {
				r.RenderRow(c, Modifier{}.Class("bar").Style("gap", "4px").ID("top"), nil)
			},
			want: `<div class="bar" id="top" style="display:flex;flex-direction:row;gap:4px"></div>`,
		},
		{
			name: "link",
			root: func(c *compose.Composer, r PlatformRenderer) {
				r.RenderLink(c, "/a?b=1&c=2", Modifier{}, func() { r.RenderText(c, "go", Modifier{}) })
			},
			want: `<a href="/a?b=1&amp;c=2"><span>go</span></a>`,
		},
		{
			name: "image",
			root: func(c *compose.Composer, r PlatformRenderer) { r.RenderImage(c, "/logo.png", "Logo", Modifier{}) },
			want: `<img alt="Logo" src="/logo.png">`,
		},
		{
			name: "disabled text field",
			root: func(c *compose.Composer, r PlatformRenderer) {
				r.RenderTextField(c, "v", nil, Modifier{}, TextFieldOptions{Name: "q", Disabled: true})
			},
			want: `<input disabled name="q" type="text" value="v">`,
		},
		{
			name: "generic element",
			root: func(c *compose.Composer, r PlatformRenderer) {
				r.RenderElement(c, "section", Modifier{}.Aria("label", "main"), func() { r.RenderBox(c, Modifier{}, nil) })
			},
			want: `<section aria-label="main"><div></div></section>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestRenderer().RenderComposableRoot(func(c *compose.Composer) {
				tt.root(c, Current(c))
			})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("markup = %s\nwant     %s", got, tt.want)
			}
		})
	}
}

func TestInteractiveElementsGetHIDs(t *testing.T) {
	r := newTestRenderer()
	clicked, typed := 0, ""
	got, err := r.RenderComposableRoot(func(c *compose.Composer) {
		pr := Current(c)
		pr.RenderColumn(c, Modifier{}, func() {
			pr.RenderButton(c, func() { clicked++ }, Modifier{}, func() { pr.RenderText(c, "+", Modifier{}) })
			pr.RenderTextField(c, "hi", func(v string) { typed = v }, Modifier{}, TextFieldOptions{})
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	want := `<div style="display:flex;flex-direction:column">` +
		`<button type="button" data-hid="h1" data-on-click="true"><span>+</span></button>` +
		`<input type="text" value="hi" data-hid="h2" data-on-input="true">` +
		`</div>`
	if got != want {
		t.Errorf("markup = %s\nwant     %s", got, want)
	}

	handlers := r.Handlers()
	if !vdom.Invoke(handlers["h1_onclick"], vdom.Event{}) || clicked != 1 {
		t.Error("h1_onclick did not reach the button handler")
	}
	if !vdom.Invoke(handlers["h2_oninput"], vdom.Event{Value: "typed"}) || typed != "typed" {
		t.Error("h2_oninput did not reach the text field handler")
	}
}

func TestLiveMarkupMatchesFreshRender(t *testing.T) {
	counter := func(count *compose.State[int]) compose.Composable {
		return func(c *compose.Composer) {
			r := Current(c)
			r.RenderColumn(c, Modifier{}, func() {
				c.Call("label", func(c *compose.Composer) {
					r.RenderText(c, fmt.Sprintf("Count: %d", count.Get(c)), Modifier{})
				})
				r.RenderButton(c, func() { count.Update(func(n int) int { return n + 1 }) }, Modifier{}, nil)
			})
		}
	}

	live := newTestRenderer()
	count := compose.NewState(0)
	rec := compose.NewRecomposer(live.Bind()...)
	defer rec.Dispose()
	if err := rec.Compose(counter(count)); err != nil {
		t.Fatal(err)
	}
	before, err := live.Markup(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(before, "Count: 0") {
		t.Fatalf("initial markup = %s", before)
	}

	count.Set(5)
	if _, err := rec.Recompose(); err != nil {
		t.Fatal(err)
	}
	after, err := live.Markup(rec)
	if err != nil {
		t.Fatal(err)
	}

	fresh, err := newTestRenderer().RenderComposableRoot(counter(compose.NewState(5)))
	if err != nil {
		t.Fatal(err)
	}
	if after != fresh {
		t.Errorf("live markup after recompose differs from a fresh render:\n%s\n%s", after, fresh)
	}
}

func TestCurrentWithoutRenderer(t *testing.T) {
	rec := compose.NewRecomposer(compose.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := rec.Compose(func(c *compose.Composer) {
		Current(c).RenderText(c, "x", Modifier{})
	})
	if !errors.Is(err, compose.ErrMissingProvider) {
		t.Errorf("Compose() error = %v, want ErrMissingProvider", err)
	}
}

func TestHeadElements(t *testing.T) {
	r := newTestRenderer()
	_, err := r.RenderComposableRoot(func(c *compose.Composer) {
		pr := Current(c)
		pr.AddHeadElement(`<link rel="stylesheet" href="/a.css">`)
		pr.AddHeadElement(`<meta name="x" content="y">`)
		pr.AddHeadElement(`<link rel="stylesheet" href="/a.css">`)
	})
	if err != nil {
		t.Fatal(err)
	}
	got := r.HeadElements()
	if len(got) != 2 || got[0] != `<link rel="stylesheet" href="/a.css">` {
		t.Errorf("HeadElements() = %v", got)
	}
}

func TestModifierIsImmutable(t *testing.T) {
	base := Modifier{}.Class("a").Style("color", "red")
	left := base.Class("b")
	right := base.Class("c").Then(Modifier{}.Style("margin", "0"))

	props := func(m Modifier) vdom.Props {
		p := vdom.Props{}
		m.applyTo(p, "")
		return p
	}
	if got := props(base)["class"]; got != "a" {
		t.Errorf("base class = %v", got)
	}
	if got := props(left)["class"]; got != "a b" {
		t.Errorf("left class = %v", got)
	}
	if got := props(right)["class"]; got != "a c" {
		t.Errorf("right class = %v", got)
	}
	if got := props(right)["style"]; got != "color:red;margin:0" {
		t.Errorf("right style = %v", got)
	}
	if !(Modifier{}).IsEmpty() || base.IsEmpty() {
		t.Error("IsEmpty() wrong")
	}
}
