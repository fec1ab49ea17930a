package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipnote/clipnote/internal/domain"
	"github.com/clipnote/clipnote/internal/httpserver/deps"
	"github.com/clipnote/clipnote/internal/notes"
	"github.com/clipnote/clipnote/internal/notify"
	"github.com/clipnote/clipnote/internal/utils"
)

// ListNotes returns the owner's notes, newest first.
func ListNotes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Repo.List(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateNote persists a new note from a JSON draft.
func CreateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft domain.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		note, err := d.Repo.Create(r.Context(), draft)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	}
}

// UpdateNote applies a partial update to an owned note.
func UpdateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		note, err := d.Repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, note)
	}
}

// DeleteNote removes an owned note.
func DeleteNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleStar flips the starred flag and notifies the UI.
func ToggleStar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		note, err := d.Repo.ToggleStar(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		if note.Starred {
			d.Notifier.Publish(notify.Message{
				Title:       "Added to favorites",
				Description: "Note added to favorites.",
				Severity:    notify.SeveritySuccess,
			})
		} else {
			d.Notifier.Publish(notify.Message{
				Title:       "Removed from favorites",
				Description: "Note removed from favorites.",
				Severity:    notify.SeveritySuccess,
			})
		}

		writeJSON(w, http.StatusOK, note)
	}
}

// DuplicateNote creates a copy of an owned note.
func DuplicateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		note, err := d.Repo.Duplicate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, note)
	}
}

// UploadImage accepts a multipart image and returns its public URL.
func UploadImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Headroom over the image limit covers multipart framing, so a
		// file exactly at the limit still parses. The repository check
		// on the decoded bytes is the authoritative limit.
		r.Body = http.MaxBytesReader(w, r.Body, notes.MaxImageBytes+64<<10)

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field"})
			return
		}
		defer utils.Close(file)

		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read upload: %v", err)})
			return
		}

		url, err := d.Repo.UploadImage(r.Context(), notes.Blob{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"url": url})
	}
}

// InFlight reports which mutation kinds are currently pending, for UI
// control disabling.
func InFlight(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Repo.InFlightSnapshot())
	}
}
