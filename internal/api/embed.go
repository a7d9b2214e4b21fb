//go:build !dev

package api

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed dist/*
var staticFiles embed.FS

// StaticHandler returns a handler that serves the embedded frontend files.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFiles, "dist")
	return staticHandler(fsys)
}

func staticHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// The service worker must be revalidated so a new cache version is picked up.
		if path == "/service-worker.js" {
			w.Header().Set("Cache-Control", "no-cache")
		}

		// Serve index.html for SPA routes (paths without file extensions)
		if path != "/" && !strings.Contains(path, ".") {
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	})
}
