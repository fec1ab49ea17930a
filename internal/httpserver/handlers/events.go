package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/logger"
)

// Events streams notifications to the client over SSE. The subscription
// lives exactly as long as the request.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ch, cancel := d.Notifier.Subscribe()
		defer cancel()

		for {
			select {
			case msg, open := <-ch:
				if !open {
					return
				}
				data, err := json.Marshal(msg)
				if err != nil {
					d.Logger.Warn("failed to marshal notification", logger.Error(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}
