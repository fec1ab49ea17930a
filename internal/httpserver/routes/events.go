package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/httpserver/handlers"
	"github.com/clipnote/clipnote/internal/httpserver/mw"
)

func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.With(mw.Auth(d.Logger)).Get("/api/events", handlers.Events(d))
}
