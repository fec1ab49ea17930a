package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/httpserver/handlers"
	"github.com/clipnote/clipnote/internal/httpserver/mw"
)

func init() { Register(registerPaste) }

func registerPaste(r chi.Router, d deps.Deps) {
	r.With(
		mw.Auth(d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			TrustProxy:        d.TrustProxy,
		}),
	).Post("/api/paste", handlers.Paste(d))
}
