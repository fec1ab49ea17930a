package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipnote/clipnote/internal/domain"
	"github.com/clipnote/clipnote/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Repository errors reach the client as-is; only unexpected ones are
// hidden behind a generic 500.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUpload):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTransport):
		status = http.StatusBadGateway
	default:
		log.Error("unexpected handler error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
