package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestUploadAndPublicURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "https://notes.example/")
	if err != nil {
		t.Fatalf("NewDiskStore() = %v", err)
	}

	if err := s.Upload(context.Background(), "alice/img.png", []byte("png-bytes"), "image/png"); err != nil {
		t.Fatalf("Upload() = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "alice", "img.png"))
	if err != nil {
		t.Fatalf("blob not written: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("blob content = %q", data)
	}

	if got, want := s.PublicURL("alice/img.png"), "https://notes.example/media/alice/img.png"; got != want {
		t.Errorf("PublicURL() = %q, want %q", got, want)
	}
}

func TestUploadRejectsEscapingPath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "https://notes.example")
	if err != nil {
		t.Fatalf("NewDiskStore() = %v", err)
	}

	// Cleaning strips the traversal, so the write must stay below root.
	if err := s.Upload(context.Background(), "../../etc/passwd", []byte("x"), "text/plain"); err != nil {
		t.Fatalf("Upload() = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "etc", "passwd")); err != nil {
		t.Errorf("cleaned path not written under root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(filepath.Dir(dir)), "etc", "passwd")); err == nil {
		t.Error("blob escaped the media root")
	}
}
