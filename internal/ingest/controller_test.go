package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clipnote/clipnote/internal/auth"
	"github.com/clipnote/clipnote/internal/clipboard"
	"github.com/clipnote/clipnote/internal/domain"
	"github.com/clipnote/clipnote/internal/enrich"
	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/notes"
	"github.com/clipnote/clipnote/internal/notify"
)

type recordingRepo struct {
	mu         sync.Mutex
	uploads    []notes.Blob
	creates    []domain.Draft
	owners     []string
	uploadErr  error
	createErr  error
	created    chan struct{}
	uploadsURL string
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{created: make(chan struct{}, 16), uploadsURL: "https://notes.example/media/alice/x.png"}
}

func (r *recordingRepo) Create(ctx context.Context, draft domain.Draft) (domain.Note, error) {
	r.mu.Lock()
	owner, _ := auth.OwnerFrom(ctx)
	r.owners = append(r.owners, owner)
	r.creates = append(r.creates, draft)
	err := r.createErr
	r.mu.Unlock()
	r.created <- struct{}{}
	if err != nil {
		return domain.Note{}, err
	}
	return domain.Note{ID: "note-1", Owner: owner}, nil
}

func (r *recordingRepo) UploadImage(_ context.Context, blob notes.Blob) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uploadErr != nil {
		// Signal even on failure so tests can wait deterministically.
		r.created <- struct{}{}
		return "", r.uploadErr
	}
	r.uploads = append(r.uploads, blob)
	return r.uploadsURL, nil
}

func (r *recordingRepo) lastCreate(t *testing.T) domain.Draft {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creates) == 0 {
		t.Fatal("no create call recorded")
	}
	return r.creates[len(r.creates)-1]
}

type staticEnricher struct {
	result enrich.Result
}

func (e staticEnricher) Enrich(context.Context, string) enrich.Result { return e.result }

type collectingSink struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (s *collectingSink) Publish(msg notify.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *collectingSink) bySeverity(sev notify.Severity) []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notify.Message
	for _, m := range s.messages {
		if m.Severity == sev {
			out = append(out, m)
		}
	}
	return out
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pipeline")
	}
}

func startController(t *testing.T, repo Repository, enricher Enricher, sink notify.Sink) *Controller {
	t.Helper()
	c := New(repo, enricher, sink, logger.Nop(), 0)
	c.Start(context.Background())
	t.Cleanup(c.Stop)
	return c
}

func pngEvent() Event {
	return Event{
		Owner:   "alice",
		Entries: []clipboard.Entry{{MediaType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New(newRecordingRepo(), staticEnricher{}, &collectingSink{}, logger.Nop(), 0)
	c.Start(context.Background())

	c.Stop()
	c.Stop() // second call must be a no-op, not a panic
}

func TestGuardedPasteIsNotIntercepted(t *testing.T) {
	repo := newRecordingRepo()
	sink := &collectingSink{}
	c := startController(t, repo, staticEnricher{}, sink)

	ev := pngEvent()
	ev.TargetEditable = true
	if c.Submit(ev) {
		t.Error("Submit() = true for editable target, native paste must proceed")
	}

	// Give the worker a beat; nothing must have run.
	time.Sleep(50 * time.Millisecond)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.uploads) != 0 || len(repo.creates) != 0 {
		t.Error("guarded paste reached the repository")
	}
}

func TestEmptyPayloadIsNotIntercepted(t *testing.T) {
	repo := newRecordingRepo()
	c := startController(t, repo, staticEnricher{}, &collectingSink{})

	if c.Submit(Event{Owner: "alice", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: "  "}}}) {
		t.Error("Submit() = true for empty payload")
	}
}

func TestImagePaste(t *testing.T) {
	repo := newRecordingRepo()
	sink := &collectingSink{}
	c := startController(t, repo, staticEnricher{}, sink)

	if !c.Submit(pngEvent()) {
		t.Fatal("Submit() = false, want intercepted")
	}
	waitSignal(t, repo.created)

	repo.mu.Lock()
	uploads := len(repo.uploads)
	repo.mu.Unlock()
	if uploads != 1 {
		t.Fatalf("uploads = %d, want 1", uploads)
	}

	draft := repo.lastCreate(t)
	if !strings.HasPrefix(draft.Title, "Screenshot - ") {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Content != "Image pasted from clipboard" {
		t.Errorf("content = %q", draft.Content)
	}
	if draft.Kind != domain.KindNote {
		t.Errorf("kind = %q, want note", draft.Kind)
	}
	if len(draft.Tags) != 2 || draft.Tags[0] != "screenshot" || draft.Tags[1] != "clipboard" {
		t.Errorf("tags = %v", draft.Tags)
	}
	if draft.ImageURL == nil || *draft.ImageURL != repo.uploadsURL {
		t.Errorf("image url = %v, want uploaded url", draft.ImageURL)
	}

	deadline := time.After(2 * time.Second)
	for len(sink.bySeverity(notify.SeveritySuccess)) != 1 {
		select {
		case <-deadline:
			t.Fatal("no success notification")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestImagePasteUploadFailureCreatesNoNote(t *testing.T) {
	repo := newRecordingRepo()
	repo.uploadErr = errors.New("upload broke")
	sink := &collectingSink{}
	c := startController(t, repo, staticEnricher{}, sink)

	if !c.Submit(pngEvent()) {
		t.Fatal("Submit() = false, want intercepted")
	}
	waitSignal(t, repo.created)

	deadline := time.After(2 * time.Second)
	for {
		failures := sink.bySeverity(notify.SeverityError)
		if len(failures) == 1 {
			if !strings.Contains(failures[0].Description, "image") {
				t.Errorf("failure = %v, want one naming the image branch", failures[0])
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("no failure notification")
		case <-time.After(10 * time.Millisecond):
		}
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.creates) != 0 {
		t.Error("note created despite failed upload")
	}
}

func TestLinkPasteWithEnrichmentFallback(t *testing.T) {
	const url = "https://dead.example"
	repo := newRecordingRepo()
	sink := &collectingSink{}
	// The enricher already absorbed its failure into the fallback result.
	enricher := staticEnricher{result: enrich.Result{Title: "Link - 2026-08-28 10:00:00", Content: url}}
	c := startController(t, repo, enricher, sink)

	if !c.Submit(Event{Owner: "alice", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: url}}}) {
		t.Fatal("Submit() = false, want intercepted")
	}
	waitSignal(t, repo.created)

	draft := repo.lastCreate(t)
	if !strings.HasPrefix(draft.Title, "Link - ") {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Content != url {
		t.Errorf("content = %q, want bare url", draft.Content)
	}
	if draft.Kind != domain.KindLink {
		t.Errorf("kind = %q, want link", draft.Kind)
	}
	if len(draft.Tags) != 2 || draft.Tags[0] != "clipboard" || draft.Tags[1] != "link" {
		t.Errorf("tags = %v", draft.Tags)
	}
}

func TestTextPaste(t *testing.T) {
	repo := newRecordingRepo()
	sink := &collectingSink{}
	c := startController(t, repo, staticEnricher{}, sink)

	if !c.Submit(Event{Owner: "alice", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: "  hello world  "}}}) {
		t.Fatal("Submit() = false, want intercepted")
	}
	waitSignal(t, repo.created)

	draft := repo.lastCreate(t)
	if !strings.HasPrefix(draft.Title, "Note - ") {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Content != "hello world" {
		t.Errorf("content = %q, want trimmed text", draft.Content)
	}
	if len(draft.Tags) != 2 || draft.Tags[0] != "clipboard" || draft.Tags[1] != "text" {
		t.Errorf("tags = %v", draft.Tags)
	}
}

func TestCreateFailureNamesBranch(t *testing.T) {
	repo := newRecordingRepo()
	repo.createErr = errors.New("store down")
	sink := &collectingSink{}
	c := startController(t, repo, staticEnricher{}, sink)

	if !c.Submit(Event{Owner: "alice", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: "hi"}}}) {
		t.Fatal("Submit() = false, want intercepted")
	}
	waitSignal(t, repo.created)

	deadline := time.After(2 * time.Second)
	for {
		failures := sink.bySeverity(notify.SeverityError)
		if len(failures) == 1 {
			if !strings.Contains(failures[0].Description, "text") {
				t.Errorf("failure = %v, want branch name", failures[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("no failure notification")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestEventsProcessedInArrivalOrder(t *testing.T) {
	repo := newRecordingRepo()
	c := startController(t, repo, staticEnricher{}, &collectingSink{})

	for _, text := range []string{"one", "two", "three"} {
		if !c.Submit(Event{Owner: "alice", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: text}}}) {
			t.Fatalf("Submit(%q) = false", text)
		}
	}
	for i := 0; i < 3; i++ {
		waitSignal(t, repo.created)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	want := []string{"one", "two", "three"}
	for i, text := range want {
		if repo.creates[i].Content != text {
			t.Errorf("creates[%d] = %q, want %q", i, repo.creates[i].Content, text)
		}
	}
}

func TestOwnerFlowsIntoContext(t *testing.T) {
	repo := newRecordingRepo()
	c := startController(t, repo, staticEnricher{}, &collectingSink{})

	if !c.Submit(Event{Owner: "carol", Entries: []clipboard.Entry{{MediaType: "text/plain", Text: "hi"}}}) {
		t.Fatal("Submit() = false")
	}
	waitSignal(t, repo.created)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.owners) != 1 || repo.owners[0] != "carol" {
		t.Errorf("owners = %v, want [carol]", repo.owners)
	}
}
