package clipboard

import (
	"net/url"
	"strings"
)

// Class is the classification outcome of a payload.
type Class int

const (
	// ClassNone means the payload carries nothing worth capturing.
	ClassNone Class = iota
	// ClassImage means the payload carries a binary image entry.
	ClassImage
	// ClassLink means the text is an absolute http(s) URL.
	ClassLink
	// ClassText means the text is plain non-empty content.
	ClassText
)

func (c Class) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassLink:
		return "link"
	case ClassText:
		return "text"
	default:
		return "none"
	}
}

// Result carries the classification and the branch-relevant data.
type Result struct {
	Class Class
	Image *ImageEntry // set for ClassImage
	URL   string      // set for ClassLink
	Text  string      // set for ClassText
}

// Classify decides what a payload is. Image wins over any accompanying
// text, since clipboard payloads often carry an image plus a textual
// fallback and the image is the higher-fidelity artifact.
func Classify(p Payload) Result {
	if p.Empty() {
		return Result{Class: ClassNone}
	}

	if p.Image != nil {
		return Result{Class: ClassImage, Image: p.Image}
	}

	text := strings.TrimSpace(p.Text)
	if isHTTPURL(text) {
		return Result{Class: ClassLink, URL: text}
	}

	return Result{Class: ClassText, Text: text}
}

// isHTTPURL reports whether s parses as an absolute URL with scheme
// http or https.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
