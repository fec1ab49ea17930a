package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clipnote/clipnote/internal/auth"
	"github.com/clipnote/clipnote/internal/clipboard"
	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/ingest"
)

type pasteRequest struct {
	Entries        []clipboard.Entry `json:"entries"`
	TargetEditable bool              `json:"target_editable"`
}

type pasteResponse struct {
	// Handled tells the client whether the paste was intercepted, so it
	// suppresses the native paste action exactly when a branch ran.
	Handled bool `json:"handled"`
}

// Paste feeds a clipboard event into the ingestion controller.
func Paste(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := auth.OwnerFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
			return
		}

		var req pasteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		handled := d.Controller.Submit(ingest.Event{
			Owner:          owner,
			Entries:        req.Entries,
			TargetEditable: req.TargetEditable,
		})
		writeJSON(w, http.StatusAccepted, pasteResponse{Handled: handled})
	}
}
