package ui

import (
	"strconv"

	"github.com/summon-dev/summon/pkg/compose"
)

// Progress emits a progress bar for value out of max. An out-of-range value
// is clamped for display and reported in the returned Result.
func Progress(c *compose.Composer, value, max float64, m Modifier) Result[float64] {
	if max <= 0 {
		max = 1
	}
	res := ValidateRange(value, 0, max)
	shown := res.Or(clamp(value, 0, max))
	Element(c, "progress", m.
		Attr("value", strconv.FormatFloat(shown, 'g', -1, 64)).
		Attr("max", strconv.FormatFloat(max, 'g', -1, 64)), nil)
	return res
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v != v || v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
