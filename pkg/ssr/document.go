package ssr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	summonerr "github.com/summon-dev/summon/internal/errors"
	"github.com/summon-dev/summon/pkg/render"
)

// InitialStateGlobal is the window property holding the hydration payload.
const InitialStateGlobal = "__SUMMON_INITIAL_STATE__"

// document is everything needed to write one page.
type document struct {
	rc    *RenderContext
	head  []string
	body  string
	state map[string]any
}

// docWriter remembers the first write error so the document can be written
// without checking every line.
type docWriter struct {
	w   io.Writer
	err error
}

func (d *docWriter) printf(format string, args ...any) {
	if d.err == nil {
		_, d.err = fmt.Fprintf(d.w, format, args...)
	}
}

func (d *docWriter) write(s string) {
	if d.err == nil {
		_, d.err = io.WriteString(d.w, s)
	}
}

func (d *docWriter) flush() {
	if f, ok := d.w.(http.Flusher); ok && d.err == nil {
		f.Flush()
	}
}

// writeDocument writes the page and flushes after the head and after the
// body when w is an http.Flusher.
func writeDocument(w io.Writer, doc *document) error {
	script, err := hydrationScript(doc.rc, doc.state)
	if err != nil {
		return err
	}

	d := &docWriter{w: w}
	d.write("<!DOCTYPE html>\n")
	d.printf("<html lang=\"%s\"><head>\n", render.EscapeAttr(doc.rc.lang()))
	d.write("  <meta charset=\"UTF-8\">\n")
	d.write("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	for _, tag := range doc.rc.SEO.Tags() {
		d.printf("  %s\n", tag)
	}
	for _, fragment := range doc.head {
		d.printf("  %s\n", fragment)
	}
	d.write("</head>")
	d.flush()

	if doc.rc.BodyID != "" {
		d.printf("<body id=\"%s\">\n", render.EscapeAttr(doc.rc.BodyID))
	} else {
		d.write("<body>\n")
	}
	d.printf("  <div id=\"root\">%s</div>\n", doc.body)
	d.flush()

	if script != "" {
		d.printf("  %s\n", script)
	}
	if doc.rc.ClientScript != "" {
		d.printf("  %s\n", render.ScriptTag{Src: doc.rc.ClientScript, Defer: true}.HTML())
	}
	d.write("</body></html>\n")
	d.flush()
	return d.err
}

// hydrationScript returns the initial state script, or "" when hydration is
// disabled. encoding/json escapes <, > and & so the payload cannot close
// the script element.
func hydrationScript(rc *RenderContext, state map[string]any) (string, error) {
	if !rc.Hydrate {
		return "", nil
	}
	if state == nil {
		state = map[string]any{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return "", summonerr.New("E031").Wrap(err)
	}
	return fmt.Sprintf("<script>window.%s = %s;</script>", InitialStateGlobal, data), nil
}

// mergeState overlays saveable state on the caller's initial state.
func mergeState(initial, saveable map[string]any) map[string]any {
	out := make(map[string]any, len(initial)+len(saveable))
	for k, v := range initial {
		out[k] = v
	}
	for k, v := range saveable {
		out[k] = v
	}
	return out
}
