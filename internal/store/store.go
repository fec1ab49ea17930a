// Package store defines the contracts against the remote authoritative
// store: row-level note operations and blob storage. Implementations live
// in subpackages; the repository only depends on these interfaces.
package store

import (
	"context"

	"github.com/clipnote/clipnote/internal/domain"
)

// Client performs row-level operations against the notes collection.
// Every call is scoped to an owner; a note belonging to someone else is
// indistinguishable from an absent one (domain.ErrNotFound).
type Client interface {
	// SelectNotes returns all of owner's notes ordered by creation time
	// descending. An owner with zero notes yields an empty slice.
	SelectNotes(ctx context.Context, owner string) ([]domain.Note, error)

	// GetNote returns a single note by id.
	GetNote(ctx context.Context, owner, id string) (domain.Note, error)

	// InsertNote persists a new note, assigning id and timestamps.
	InsertNote(ctx context.Context, note domain.Note) (domain.Note, error)

	// UpdateNote applies a partial update and advances UpdatedAt.
	UpdateNote(ctx context.Context, owner, id string, patch domain.Patch) (domain.Note, error)

	// DeleteNote removes a note. Deleting an absent note returns
	// domain.ErrNotFound.
	DeleteNote(ctx context.Context, owner, id string) error
}

// BlobStore stores opaque binary objects under owner-namespaced paths and
// resolves them to publicly reachable URLs.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}
