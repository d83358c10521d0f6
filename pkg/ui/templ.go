package ui

import (
	"bytes"

	"github.com/a-h/templ"

	"github.com/summon-dev/summon/pkg/compose"
)

// Templ renders a templ component in place. The component is rendered on
// every pass that reaches the call. If it fails, an empty node is emitted
// and the error returned.
func Templ(c *compose.Composer, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Context(), &buf); err != nil {
		Raw(c, "")
		return err
	}
	Raw(c, buf.String())
	return nil
}
