package render

// isVoidElement reports whether tag has no closing tag and no children.
func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// isInlineElement reports whether tag is kept on one line when pretty
// printing.
func isInlineElement(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "br", "button", "cite", "code", "em", "i", "kbd",
		"label", "mark", "q", "s", "samp", "small", "span", "strong", "sub",
		"sup", "time", "u", "var", "wbr":
		return true
	}
	return false
}

// isBooleanAttr reports whether name is written without a value when true.
func isBooleanAttr(name string) bool {
	switch name {
	case "allowfullscreen", "async", "autofocus", "autoplay", "checked",
		"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
		"ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
		"novalidate", "open", "playsinline", "readonly", "required",
		"reversed", "selected":
		return true
	}
	return false
}
