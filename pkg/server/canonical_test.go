package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"", "/", nil},
		{"/", "/", nil},
		{"/todos", "/todos", nil},
		{"/todos/", "/todos", nil},
		{"//todos//list", "/todos/list", nil},
		{"/a/./b", "/a/b", nil},
		{"/a/b/../c", "/a/c", nil},
		{"/hello/caf%C3%A9", "/hello/caf%C3%A9", nil},
		{"/..", "", errEscapesRoot},
		{"/a/../../b", "", errEscapesRoot},
		{`/a\b`, "", errBackslash},
		{"/a%00b", "", errNullByte},
		{"/a%2", "", errBadEscape},
		{"/a%GGb", "", errBadEscape},
	}
	for _, tt := range tests {
		got, err := canonicalPath(tt.in)
		if err != tt.wantErr || got != tt.want {
			t.Errorf("canonicalPath(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestCanonicalPathsMiddleware(t *testing.T) {
	h := canonicalPaths(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		method   string
		target   string
		status   int
		location string
	}{
		{http.MethodGet, "/todos", http.StatusTeapot, ""},
		{http.MethodGet, "/todos/?x=1", http.StatusMovedPermanently, "/todos?x=1"},
		{http.MethodGet, "/a//b", http.StatusMovedPermanently, "/a/b"},
		{http.MethodPost, "/todos/", http.StatusPermanentRedirect, "/todos"},
		{http.MethodGet, "/a/../..", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.target, rec.Code, tt.status)
		}
		if got := rec.Header().Get("Location"); got != tt.location {
			t.Errorf("%s %s: Location = %q, want %q", tt.method, tt.target, got, tt.location)
		}
	}
}
