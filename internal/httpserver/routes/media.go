package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
)

func init() { Register(registerMedia) }

// registerMedia serves uploaded blobs. The URLs are unguessable (uuid file
// names under an opaque owner directory), so no auth gate here; the web
// client embeds them directly in <img> tags.
func registerMedia(r chi.Router, d deps.Deps) {
	fs := http.StripPrefix("/media/", http.FileServer(http.Dir(d.MediaRoot)))
	r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}
