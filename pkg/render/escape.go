package render

import "strings"

// EscapeText escapes text for safe inclusion in HTML content.
func EscapeText(s string) string {
	return escape(s, false)
}

// EscapeAttr escapes text for safe inclusion in a double-quoted attribute
// value. Line breaks and tabs are escaped too so attribute values survive
// pretty printing unchanged.
func EscapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 16)

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			writeAttrOnly(&buf, attr, "&#10;", r)
		case '\r':
			writeAttrOnly(&buf, attr, "&#13;", r)
		case '\t':
			writeAttrOnly(&buf, attr, "&#9;", r)
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

func writeAttrOnly(buf *strings.Builder, attr bool, entity string, r rune) {
	if attr {
		buf.WriteString(entity)
		return
	}
	buf.WriteRune(r)
}
