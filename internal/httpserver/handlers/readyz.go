package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/logger"
)

type readyzResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

// Readyz reports whether the service can actually serve: the remote store
// must answer a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			d.Logger.Warn("readiness: redis ping failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Status: "degraded", Redis: "down"})
			return
		}

		writeJSON(w, http.StatusOK, readyzResponse{Status: "ok", Redis: "ok"})
	}
}
