// Package ingest owns the clipboard capture pipeline: guard, classify,
// enrich, persist, notify. One controller instance holds exactly one
// worker; its lifetime is scoped by Start/Stop so instances never leak
// into each other.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/clipnote/clipnote/internal/auth"
	"github.com/clipnote/clipnote/internal/clipboard"
	"github.com/clipnote/clipnote/internal/domain"
	"github.com/clipnote/clipnote/internal/enrich"
	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/notes"
	"github.com/clipnote/clipnote/internal/notify"
)

// DefaultQueueSize bounds pending paste events. Two pastes in quick
// succession are two independent pipeline runs; they queue, they are
// never coalesced.
const DefaultQueueSize = 16

// Repository is the slice of the note repository the pipeline needs.
type Repository interface {
	Create(ctx context.Context, draft domain.Draft) (domain.Note, error)
	UploadImage(ctx context.Context, blob notes.Blob) (string, error)
}

// Enricher resolves a URL to a best-effort title. It never fails.
type Enricher interface {
	Enrich(ctx context.Context, url string) enrich.Result
}

// Event is one paste event as delivered by the client.
type Event struct {
	// Owner is the authenticated user the capture belongs to.
	Owner string
	// Entries are the raw clipboard items.
	Entries []clipboard.Entry
	// TargetEditable is true when the paste landed in an editable
	// widget; such pastes must reach the widget unmodified.
	TargetEditable bool
}

type task struct {
	owner  string
	result clipboard.Result
}

// Controller runs the capture pipeline.
type Controller struct {
	repo     Repository
	enricher Enricher
	sink     notify.Sink
	logger   logger.Logger
	now      func() time.Time

	queue    chan task
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a controller. queueSize <= 0 falls back to DefaultQueueSize.
func New(repo Repository, enricher Enricher, sink notify.Sink, log logger.Logger, queueSize int) *Controller {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Controller{
		repo:     repo,
		enricher: enricher,
		sink:     sink,
		logger:   log,
		now:      time.Now,
		queue:    make(chan task, queueSize),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the single pipeline worker. Tasks are executed strictly
// in arrival order.
func (c *Controller) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case t := <-c.queue:
				c.run(ctx, t)
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	c.logger.Info("paste ingestion started")
}

// Stop tears the worker down. Queued but unprocessed events are dropped.
// Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.wg.Wait()
		c.logger.Info("paste ingestion stopped")
	})
}

// Submit runs guard and classification synchronously and reports whether
// the paste was intercepted; when true the caller suppresses the native
// paste before any asynchronous work happens. The enrich/upload/persist
// work runs on the worker.
func (c *Controller) Submit(ev Event) bool {
	// Guard: a paste inside an editable field belongs to that field.
	if ev.TargetEditable {
		return false
	}

	result := clipboard.Classify(clipboard.Normalize(ev.Entries))
	if result.Class == clipboard.ClassNone {
		return false
	}

	select {
	case c.queue <- task{owner: ev.Owner, result: result}:
	default:
		c.logger.Warn("paste queue full, dropping event",
			logger.String("owner", ev.Owner),
			logger.String("class", result.Class.String()))
		c.sink.Publish(notify.Message{
			Title:       "Error",
			Description: "Too many pastes at once, please retry",
			Severity:    notify.SeverityError,
		})
		return false
	}

	c.logger.Debug("paste accepted",
		logger.String("owner", ev.Owner),
		logger.String("class", result.Class.String()))
	return true
}

// run executes one pipeline branch. Every failure is absorbed into a
// notification; nothing propagates, a failed capture must not disturb
// anything else.
func (c *Controller) run(ctx context.Context, t task) {
	ctx = auth.WithOwner(ctx, t.owner)

	switch t.result.Class {
	case clipboard.ClassImage:
		c.runImage(ctx, t.result.Image)
	case clipboard.ClassLink:
		c.runLink(ctx, t.result.URL)
	case clipboard.ClassText:
		c.runText(ctx, t.result.Text)
	}
}

func (c *Controller) runImage(ctx context.Context, img *clipboard.ImageEntry) {
	c.sink.Publish(notify.Message{
		Title:       "Processing image...",
		Description: "Creating note with pasted image",
		Severity:    notify.SeverityInfo,
	})

	url, err := c.repo.UploadImage(ctx, notes.Blob{Data: img.Data, ContentType: img.MediaType})
	if err != nil {
		// No partial note when the upload failed.
		c.logger.Warn("image paste upload failed", logger.Error(err))
		c.fail("image")
		return
	}

	_, err = c.repo.Create(ctx, domain.Draft{
		Title:    "Screenshot - " + c.timestamp(),
		Content:  "Image pasted from clipboard",
		Kind:     domain.KindNote,
		Tags:     []string{"screenshot", "clipboard"},
		ImageURL: &url,
	})
	if err != nil {
		c.logger.Warn("image paste create failed", logger.Error(err))
		c.fail("image")
		return
	}

	c.succeed("Note created with pasted image")
}

func (c *Controller) runLink(ctx context.Context, url string) {
	c.sink.Publish(notify.Message{
		Title:       "Processing link...",
		Description: "Creating note with pasted URL",
		Severity:    notify.SeverityInfo,
	})

	// Enrichment is best-effort; it always yields a usable result.
	enriched := c.enricher.Enrich(ctx, url)

	_, err := c.repo.Create(ctx, domain.Draft{
		Title:   enriched.Title,
		Content: enriched.Content,
		Kind:    domain.KindLink,
		Tags:    []string{"clipboard", "link"},
	})
	if err != nil {
		c.logger.Warn("link paste create failed", logger.Error(err))
		c.fail("link")
		return
	}

	c.succeed("Note created with pasted link")
}

func (c *Controller) runText(ctx context.Context, text string) {
	c.sink.Publish(notify.Message{
		Title:       "Processing text...",
		Description: "Creating note with pasted content",
		Severity:    notify.SeverityInfo,
	})

	_, err := c.repo.Create(ctx, domain.Draft{
		Title:   "Note - " + c.timestamp(),
		Content: text,
		Kind:    domain.KindNote,
		Tags:    []string{"clipboard", "text"},
	})
	if err != nil {
		c.logger.Warn("text paste create failed", logger.Error(err))
		c.fail("text")
		return
	}

	c.succeed("Note created with pasted text")
}

func (c *Controller) succeed(description string) {
	c.sink.Publish(notify.Message{
		Title:       "Success",
		Description: description,
		Severity:    notify.SeveritySuccess,
	})
}

func (c *Controller) fail(branch string) {
	c.sink.Publish(notify.Message{
		Title:       "Error",
		Description: "Failed to create note with " + branch,
		Severity:    notify.SeverityError,
	})
}

func (c *Controller) timestamp() string {
	return c.now().Format("2006-01-02 15:04:05")
}
