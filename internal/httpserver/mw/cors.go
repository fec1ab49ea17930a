package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the web client to call the API from its own origin.
// No configured origins means same-host deployments only.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", OwnerHeader},
		MaxAge:         300,
	})
}
