// Package blob implements the blob store on the local filesystem. Files
// land under a configured media root and are served back by the HTTP
// server under /media/, so PublicURL resolves against the service's
// public base URL.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes blobs below Root and resolves them under
// BaseURL + "/media/".
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the media root if needed.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes data under path. The path must stay below the media root;
// anything that escapes after cleaning is rejected.
func (s *DiskStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create blob dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// PublicURL returns the externally reachable URL for a stored path.
func (s *DiskStore) PublicURL(path string) string {
	return s.baseURL + "/media/" + strings.TrimLeft(path, "/")
}

// Root returns the media root directory, for the file-serving handler.
func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob path: %s", path)
	}
	return full, nil
}
