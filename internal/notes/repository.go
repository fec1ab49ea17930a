// Package notes is the single authoritative façade for note data access.
// It owns the cache-consistency contract: every successful mutation
// invalidates the owner's cached listing before returning, so the next
// List observes the mutation.
package notes

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/clipnote/clipnote/internal/auth"
	"github.com/clipnote/clipnote/internal/cache"
	"github.com/clipnote/clipnote/internal/domain"
	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/store"
)

// MaxImageBytes is the upload size limit for pasted or uploaded images.
const MaxImageBytes = 5 << 20 // 5 MiB

// Blob is an image payload handed to UploadImage.
type Blob struct {
	Data        []byte
	ContentType string
}

// Repository exposes note CRUD plus the derived mutations, scoped to the
// owner carried by the request context.
type Repository struct {
	store  store.Client
	blobs  store.BlobStore
	cache  *cache.Notes
	logger logger.Logger
	ops    *tracker
}

// NewRepository wires the repository over a store client, a blob store and
// the process-local read cache.
func NewRepository(st store.Client, blobs store.BlobStore, c *cache.Notes, log logger.Logger) *Repository {
	return &Repository{
		store:  st,
		blobs:  blobs,
		cache:  c,
		logger: log,
		ops:    newTracker(),
	}
}

func (r *Repository) owner(ctx context.Context) (string, error) {
	owner, ok := auth.OwnerFrom(ctx)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return owner, nil
}

// List returns the owner's notes, newest first. A fresh cache entry is
// served as-is; otherwise the full set is refetched from the store and
// cached. An owner with zero notes gets an empty slice, not an error.
func (r *Repository) List(ctx context.Context) ([]domain.Note, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}

	if notes, ok := r.cache.Get(owner); ok {
		r.logger.Debug("serving notes from cache",
			logger.String("owner", owner),
			logger.Int("count", len(notes)))
		return notes, nil
	}

	notes, err := r.store.SelectNotes(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	r.cache.Put(owner, notes)

	r.logger.Debug("notes refetched from store",
		logger.String("owner", owner),
		logger.Int("count", len(notes)))
	return notes, nil
}

// Create validates the draft and persists a new note for the owner.
func (r *Repository) Create(ctx context.Context, draft domain.Draft) (domain.Note, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	defer r.ops.begin(OpCreate)()

	if err := draft.Normalize(); err != nil {
		return domain.Note{}, err
	}

	note, err := r.store.InsertNote(ctx, domain.Note{
		Owner:     owner,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      draft.Tags,
		Kind:      draft.Kind,
		AISummary: draft.AISummary,
		ImageURL:  draft.ImageURL,
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	r.cache.Invalidate(owner)
	r.logger.Info("note created",
		logger.String("owner", owner),
		logger.String("note_id", note.ID),
		logger.String("kind", string(note.Kind)))
	return note, nil
}

// Update applies only the provided fields to an owned note.
func (r *Repository) Update(ctx context.Context, id string, patch domain.Patch) (domain.Note, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	defer r.ops.begin(OpUpdate)()

	if patch.IsZero() {
		return domain.Note{}, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	note, err := r.store.UpdateNote(ctx, owner, id, patch)
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to update note: %w", err)
	}

	r.cache.Invalidate(owner)
	r.logger.Info("note updated",
		logger.String("owner", owner),
		logger.String("note_id", id))
	return note, nil
}

// Delete removes an owned note. A second delete of the same id reports
// domain.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	owner, err := r.owner(ctx)
	if err != nil {
		return err
	}
	defer r.ops.begin(OpDelete)()

	if err := r.store.DeleteNote(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	r.cache.Invalidate(owner)
	r.logger.Info("note deleted",
		logger.String("owner", owner),
		logger.String("note_id", id))
	return nil
}

// ToggleStar flips the starred flag. The current value is read from the
// store immediately before the write, never from the cache, so repeated
// clicks cannot double-toggle off a stale value.
func (r *Repository) ToggleStar(ctx context.Context, id string) (domain.Note, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	defer r.ops.begin(OpStar)()

	current, err := r.store.GetNote(ctx, owner, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to read note for star toggle: %w", err)
	}

	starred := !current.Starred
	note, err := r.store.UpdateNote(ctx, owner, id, domain.Patch{Starred: &starred})
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to toggle star: %w", err)
	}

	r.cache.Invalidate(owner)
	r.logger.Info("note star toggled",
		logger.String("owner", owner),
		logger.String("note_id", id),
		logger.Bool("starred", note.Starred))
	return note, nil
}

// Duplicate creates a copy of an owned note: fresh id, title gains the
// copy marker, starred resets to false.
func (r *Repository) Duplicate(ctx context.Context, id string) (domain.Note, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return domain.Note{}, err
	}
	defer r.ops.begin(OpDuplicate)()

	src, err := r.store.GetNote(ctx, owner, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to read note for duplication: %w", err)
	}

	draft := domain.DuplicateDraft(src)
	note, err := r.store.InsertNote(ctx, domain.Note{
		Owner:     owner,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      draft.Tags,
		Kind:      draft.Kind,
		AISummary: draft.AISummary,
		ImageURL:  draft.ImageURL,
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("failed to duplicate note: %w", err)
	}

	r.cache.Invalidate(owner)
	r.logger.Info("note duplicated",
		logger.String("owner", owner),
		logger.String("source_id", id),
		logger.String("note_id", note.ID))
	return note, nil
}

// UploadImage stores an image blob under an owner-namespaced random file
// name and returns its public URL. It never creates or modifies a note.
func (r *Repository) UploadImage(ctx context.Context, blob Blob) (string, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return "", err
	}
	defer r.ops.begin(OpUpload)()

	if !strings.HasPrefix(blob.ContentType, "image/") {
		return "", fmt.Errorf("%w: media type %q is not an image", domain.ErrUpload, blob.ContentType)
	}
	if len(blob.Data) == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrUpload)
	}
	if len(blob.Data) > MaxImageBytes {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", domain.ErrUpload, MaxImageBytes)
	}

	name := uuid.NewString() + imageExt(blob.ContentType)
	blobPath := path.Join(owner, name)

	if err := r.blobs.Upload(ctx, blobPath, blob.Data, blob.ContentType); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}

	url := r.blobs.PublicURL(blobPath)
	r.logger.Info("image uploaded",
		logger.String("owner", owner),
		logger.String("path", blobPath),
		logger.Int("bytes", len(blob.Data)))
	return url, nil
}

// InFlight reports whether any operation of the given kind is pending.
func (r *Repository) InFlight(kind OpKind) bool {
	return r.ops.inFlight(kind)
}

// InFlightSnapshot returns the pending flag for every operation kind.
func (r *Repository) InFlightSnapshot() map[OpKind]bool {
	return r.ops.snapshot()
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".img"
	}
}
