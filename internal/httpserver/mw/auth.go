package mw

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clipnote/clipnote/internal/auth"
	"github.com/clipnote/clipnote/internal/logger"
)

// OwnerHeader carries the opaque id of the authenticated user. The actual
// authentication happens upstream; this service only consumes the signal.
const OwnerHeader = "X-Owner-ID"

// Auth extracts the owner id from the request and stashes it into the
// context. Requests without an owner are rejected with 401.
func Auth(loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
			if owner == "" {
				loggerClient.Debug("request without owner rejected",
					logger.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), owner)))
		})
	}
}
