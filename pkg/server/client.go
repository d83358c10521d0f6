package server

import (
	_ "embed"
	"net/http"
)

//go:embed client.js
var clientScript []byte

func serveClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(clientScript)
}
