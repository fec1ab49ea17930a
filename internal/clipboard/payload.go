// Package clipboard normalizes raw clipboard data and classifies it.
// Both steps are pure: no I/O, no suspension points.
package clipboard

import "strings"

// Entry is one raw data-transfer item from a paste event.
type Entry struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"data,omitempty"`
	Text      string `json:"text,omitempty"`
}

// ImageEntry is the binary part of a payload that carries an image.
type ImageEntry struct {
	MediaType string
	Data      []byte
}

// Payload is the closed normal form of a clipboard payload: at most one
// image entry plus the plain-text representation. Media-type checks happen
// here once; nothing downstream inspects raw entries again.
type Payload struct {
	Image *ImageEntry
	Text  string
}

// Empty reports whether the payload carries nothing usable.
func (p Payload) Empty() bool {
	return p.Image == nil && strings.TrimSpace(p.Text) == ""
}

// Normalize reduces raw entries to a Payload. The first image entry wins;
// text entries concatenate in order (clipboards rarely carry more than one).
func Normalize(entries []Entry) Payload {
	var p Payload
	var text strings.Builder

	for _, e := range entries {
		if strings.HasPrefix(e.MediaType, "image/") && len(e.Data) > 0 {
			if p.Image == nil {
				p.Image = &ImageEntry{MediaType: e.MediaType, Data: e.Data}
			}
			continue
		}
		if e.Text != "" {
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(e.Text)
		}
	}

	p.Text = text.String()
	return p
}
