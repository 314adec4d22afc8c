// Package site serves the embedded landing page.
package site

import (
	"context"
	"net/http"
)

// Register serves the embedded site at /. Paths no other route claims
// fall through to the file server and get its 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
