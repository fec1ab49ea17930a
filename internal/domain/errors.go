package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the repository, the store and the HTTP layer.
// Callers match with errors.Is; wrapping preserves the original detail.
var (
	// ErrUnauthenticated means no owner is present on the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation means a draft or patch failed field validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the mutation target is absent or not owned
	// by the caller.
	ErrNotFound = errors.New("note not found")

	// ErrUpload means a blob upload was rejected (bad media type,
	// oversized payload) or failed in transport.
	ErrUpload = errors.New("upload failed")

	// ErrTransport is a generic remote-store failure.
	ErrTransport = errors.New("store transport error")
)

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// TransportErr tags err as a generic remote-store failure so callers can
// match it with errors.Is(err, ErrTransport).
func TransportErr(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

