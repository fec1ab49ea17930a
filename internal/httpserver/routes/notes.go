package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/httpserver/handlers"
	"github.com/clipnote/clipnote/internal/httpserver/mw"
)

func init() { Register(registerNotes) }

func registerNotes(r chi.Router, d deps.Deps) {
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(mw.Auth(d.Logger))

		r.Get("/", handlers.ListNotes(d))
		r.Post("/", handlers.CreateNote(d))
		r.Get("/inflight", handlers.InFlight(d))
		r.Patch("/{id}", handlers.UpdateNote(d))
		r.Delete("/{id}", handlers.DeleteNote(d))
		r.Post("/{id}/star", handlers.ToggleStar(d))
		r.Post("/{id}/duplicate", handlers.DuplicateNote(d))
	})

	r.With(mw.Auth(d.Logger)).Post("/api/upload", handlers.UploadImage(d))
}
