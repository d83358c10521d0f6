package server

import (
	"errors"
	"net/http"
	"strings"
)

var (
	errBackslash   = errors.New("path contains a backslash")
	errNullByte    = errors.New("path contains a NUL byte")
	errBadEscape   = errors.New("path contains an invalid percent escape")
	errEscapesRoot = errors.New("path escapes the root")
)

// canonicalPath normalizes an escaped URL path: a leading slash, no empty
// or "." segments, ".." resolved, and no trailing slash except for "/".
// Paths that cannot be served safely are rejected.
func canonicalPath(p string) (string, error) {
	if p == "" {
		return "/", nil
	}
	if strings.Contains(p, `\`) {
		return "", errBackslash
	}
	if strings.Contains(p, "\x00") || strings.Contains(strings.ToUpper(p), "%00") {
		return "", errNullByte
	}
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHex(p[i+1]) || !isHex(p[i+2]) {
			return "", errBadEscape
		}
		i += 2
	}

	segments := make([]string, 0, strings.Count(p, "/"))
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return "", errEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}
	return "/" + strings.Join(segments, "/"), nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// canonicalPaths redirects requests for non-canonical paths to their
// canonical form and rejects paths that fail validation.
func canonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped := r.URL.EscapedPath()
		canonical, err := canonicalPath(escaped)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if canonical == escaped {
			next.ServeHTTP(w, r)
			return
		}

		target := canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		code := http.StatusMovedPermanently
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			code = http.StatusPermanentRedirect
		}
		http.Redirect(w, r, target, code)
	})
}
