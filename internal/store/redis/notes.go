package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/clipnote/clipnote/internal/domain"
)

// Store is the Redis-backed implementation of the remote note store.
// Notes are JSON rows keyed by id; a per-owner set indexes the ids so a
// full owner listing never scans the keyspace.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SelectNotes retrieves all notes for owner, newest first.
func (s *Store) SelectNotes(ctx context.Context, owner string) ([]domain.Note, error) {
	ids, err := s.client.SMembers(ctx, OwnerNotesKey(owner)).Result()
	if err != nil {
		return nil, domain.TransportErr(fmt.Errorf("failed to list note ids: %w", err))
	}

	notes := make([]domain.Note, 0, len(ids))
	if len(ids) == 0 {
		return notes, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = NoteKey(id)
	}

	rows, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.TransportErr(fmt.Errorf("failed to fetch note rows: %w", err))
	}

	for _, row := range rows {
		raw, ok := row.(string)
		if !ok {
			// Index member without a row: the row expired or a delete
			// half-finished. Skip it rather than failing the listing.
			continue
		}
		var note domain.Note
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			return nil, domain.TransportErr(fmt.Errorf("failed to unmarshal note: %w", err))
		}
		notes = append(notes, note)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

// GetNote retrieves a single note by id, scoped to owner.
func (s *Store) GetNote(ctx context.Context, owner, id string) (domain.Note, error) {
	data, err := s.client.Get(ctx, NoteKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, domain.TransportErr(fmt.Errorf("failed to get note: %w", err))
	}

	var note domain.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return domain.Note{}, domain.TransportErr(fmt.Errorf("failed to unmarshal note: %w", err))
	}

	// A note owned by someone else is indistinguishable from an absent one.
	if note.Owner != owner {
		return domain.Note{}, domain.ErrNotFound
	}

	return note, nil
}

// InsertNote persists a new note, assigning id and timestamps.
func (s *Store) InsertNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := s.writeNote(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// UpdateNote applies a partial update to an owned note and advances UpdatedAt.
func (s *Store) UpdateNote(ctx context.Context, owner, id string, patch domain.Patch) (domain.Note, error) {
	note, err := s.GetNote(ctx, owner, id)
	if err != nil {
		return domain.Note{}, err
	}

	if err := patch.Apply(&note); err != nil {
		return domain.Note{}, err
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.writeNote(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// DeleteNote removes an owned note and its index entry.
func (s *Store) DeleteNote(ctx context.Context, owner, id string) error {
	// Ownership check first so a foreign id reports not-found, not success.
	if _, err := s.GetNote(ctx, owner, id); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, NoteKey(id))
	pipe.SRem(ctx, OwnerNotesKey(owner), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.TransportErr(fmt.Errorf("failed to delete note: %w", err))
	}
	return nil
}

func (s *Store) writeNote(ctx context.Context, note domain.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return domain.TransportErr(fmt.Errorf("failed to marshal note: %w", err))
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, NoteKey(note.ID), data, 0)
	pipe.SAdd(ctx, OwnerNotesKey(note.Owner), note.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.TransportErr(fmt.Errorf("failed to save note: %w", err))
	}
	return nil
}
