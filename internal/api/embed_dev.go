//go:build dev

package api

import (
	"net/http"
	"os"
)

// StaticHandler serves the frontend straight from disk so edits show up on reload.
// TEAMS_DIST_DIR overrides the default location.
func (h *Handler) StaticHandler() http.Handler {
	dir := os.Getenv("TEAMS_DIST_DIR")
	if dir == "" {
		dir = "internal/api/dist"
	}
	return http.FileServer(http.Dir(dir))
}
