package domain

import (
	"strings"
	"time"
)

// Kind classifies what a note captures.
type Kind string

const (
	KindNote       Kind = "note"
	KindCollection Kind = "collection"
	KindLink       Kind = "link"
)

// Valid reports whether k is one of the known note kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindNote, KindCollection, KindLink:
		return true
	}
	return false
}

// Note is the canonical persisted unit of captured content.
//
// It is the only entity the store persists. All reads and writes are
// implicitly scoped to Owner; a note is never visible to another owner.
type Note struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the server-assigned unique identifier.
	ID string `json:"id"`

	// Owner is the authenticated user this note belongs to.
	// Set once at creation, never reassigned.
	Owner string `json:"owner"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title and Content are required and non-empty after trimming.
	Title   string `json:"title"`
	Content string `json:"content"`

	// Tags is a duplicate-free set of labels. Order is not significant.
	Tags []string `json:"tags"`

	// Kind is one of note | collection | link.
	Kind Kind `json:"kind"`

	// AISummary is an externally supplied summary, if any.
	AISummary *string `json:"ai_summary,omitempty"`

	// ImageURL references an uploaded blob, if any.
	ImageURL *string `json:"image_url,omitempty"`

	// Starred marks a favorite. Starring never removes a note from
	// the default listing.
	Starred bool `json:"starred"`

	// ─────────────────────────────
	// Metadata (owned by the store)
	// ─────────────────────────────

	// CreatedAt is set once at insert.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt advances on every successful mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is the unsaved field set supplied to create, before any
// server-assigned fields exist.
type Draft struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Kind      Kind     `json:"kind"`
	AISummary *string  `json:"ai_summary,omitempty"`
	ImageURL  *string  `json:"image_url,omitempty"`
}

// Normalize trims the draft, defaults the kind and deduplicates tags.
// It returns ErrValidation when title or content is empty after trimming
// or the kind is unknown.
func (d *Draft) Normalize() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	if d.Title == "" {
		return wrapValidation("title must not be empty")
	}
	if d.Content == "" {
		return wrapValidation("content must not be empty")
	}
	if d.Kind == "" {
		d.Kind = KindNote
	}
	if !d.Kind.Valid() {
		return wrapValidation("unknown kind: " + string(d.Kind))
	}
	d.Tags = DedupeTags(d.Tags)
	return nil
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Title     *string   `json:"title,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
	Kind      *Kind     `json:"kind,omitempty"`
	AISummary *string   `json:"ai_summary,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Starred   *bool     `json:"starred,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil &&
		p.Kind == nil && p.AISummary == nil && p.ImageURL == nil &&
		p.Starred == nil
}

// Apply overlays the patch onto n. Only provided fields change.
// Empty or invalid values for required fields return ErrValidation.
func (p Patch) Apply(n *Note) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return wrapValidation("title must not be empty")
		}
		n.Title = t
	}
	if p.Content != nil {
		c := strings.TrimSpace(*p.Content)
		if c == "" {
			return wrapValidation("content must not be empty")
		}
		n.Content = c
	}
	if p.Tags != nil {
		n.Tags = DedupeTags(*p.Tags)
	}
	if p.Kind != nil {
		if !p.Kind.Valid() {
			return wrapValidation("unknown kind: " + string(*p.Kind))
		}
		n.Kind = *p.Kind
	}
	if p.AISummary != nil {
		n.AISummary = p.AISummary
	}
	if p.ImageURL != nil {
		n.ImageURL = p.ImageURL
	}
	if p.Starred != nil {
		n.Starred = *p.Starred
	}
	return nil
}

// CopyMarker is appended to a note's title when it is duplicated.
const CopyMarker = " (Copy)"

// DuplicateDraft builds the draft for a copy of src: title gains the copy
// marker, content, tags, kind, summary and image carry over, starred resets.
func DuplicateDraft(src Note) Draft {
	tags := make([]string, len(src.Tags))
	copy(tags, src.Tags)
	return Draft{
		Title:     src.Title + CopyMarker,
		Content:   src.Content,
		Tags:      tags,
		Kind:      src.Kind,
		AISummary: src.AISummary,
		ImageURL:  src.ImageURL,
	}
}

// DedupeTags removes duplicates while keeping first-occurrence order.
// Blank tags are dropped. Never returns nil.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
