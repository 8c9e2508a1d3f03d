package http

import (
	_ "embed"
	"net/http"
)

//go:embed upload.html
var uploadPage []byte

// IndexHandler serves the embedded single-page upload UI.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(uploadPage)
}
