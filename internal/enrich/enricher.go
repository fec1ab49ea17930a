// Package enrich augments captured URLs with the remote page's title.
// Enrichment is best-effort and time-bounded: link capture must never be
// blocked by an unreliable third-party page, so every failure collapses
// into a usable fallback and no error ever reaches the caller.
package enrich

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/utils"
)

const (
	// DefaultTimeout bounds the whole fetch+parse of a page.
	DefaultTimeout = 5 * time.Second

	// maxBodyBytes caps how much of a page is read looking for a title.
	maxBodyBytes = 1 << 20 // 1 MiB

	userAgent = "clipnote/1.0 (link enrichment)"
)

// Result is what enrichment yields for a captured URL.
type Result struct {
	Title   string
	Content string
}

// Enricher fetches page titles.
type Enricher struct {
	client  *http.Client
	timeout time.Duration
	logger  logger.Logger
	now     func() time.Time
}

// New builds an enricher. A zero timeout falls back to DefaultTimeout.
func New(timeout time.Duration, log logger.Logger) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Enricher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  log,
		now:     time.Now,
	}
}

// Enrich fetches url and extracts its title element. On any failure it
// returns the fallback: "Link - <timestamp>" with the bare URL as content.
func (e *Enricher) Enrich(ctx context.Context, url string) Result {
	title, ok := e.fetchTitle(ctx, url)
	if !ok {
		return Result{
			Title:   "Link - " + e.now().Format("2006-01-02 15:04:05"),
			Content: url,
		}
	}
	return Result{
		Title:   title,
		Content: url + "\n\nPage Title: " + title,
	}
}

func (e *Enricher) fetchTitle(ctx context.Context, url string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.logger.Debug("enrich: bad url", logger.String("url", url), logger.Error(err))
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("enrich: fetch failed", logger.String("url", url), logger.Error(err))
		return "", false
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		e.logger.Debug("enrich: non-200 response",
			logger.String("url", url),
			logger.Int("status", resp.StatusCode))
		return "", false
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		e.logger.Debug("enrich: non-html response",
			logger.String("url", url),
			logger.String("content_type", ct))
		return "", false
	}

	title, ok := extractTitle(io.LimitReader(resp.Body, maxBodyBytes))
	if !ok {
		e.logger.Debug("enrich: no title found", logger.String("url", url))
	}
	return title, ok
}

// extractTitle parses HTML and returns the trimmed text of the first
// <title> element.
func extractTitle(r io.Reader) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(sb.String())
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	if !walk(doc) || title == "" {
		return "", false
	}
	return title, true
}
