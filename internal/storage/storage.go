package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains the remote object store abstraction used by the
// upload pipeline. Implementations must rely on streaming I/O only; no local
// disk is used.

// Classification sentinels. Implementations wrap backend errors with these so
// the service and HTTP layers can map failures to the right response class
// without knowing the backend.
var (
	// ErrNotConfigured means required credentials or endpoint settings are absent.
	ErrNotConfigured = errors.New("object storage not configured")
	// ErrCredentialsRejected means the backend refused the configured credentials.
	ErrCredentialsRejected = errors.New("object storage rejected credentials")
	// ErrUnreachable means the backend could not be reached (DNS, connection,
	// timeout). Callers may treat it as retryable.
	ErrUnreachable = errors.New("object storage unreachable")
)

// PutOptions define optional parameters for committing objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes one committed object as reported by the remote store.
// Width and Height are populated only when the backend reports image
// dimensions; zero means unknown.
type ObjectInfo struct {
	// ID is the store's stable object identifier (the public id).
	ID string
	// URL is the retrieval URL for the object.
	URL    string
	Format string
	Size   int64
	Width  int
	Height int
}

// Storage is the remote object store capability: commit bytes under a logical
// folder, and delete by object id.
type Storage interface {
	// Put commits the reader's bytes under the given folder and returns the
	// resulting object identity. The original filename is used only to derive
	// the stored key's extension and format.
	Put(ctx context.Context, folder, filename string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Delete removes an object by its id. found reports whether the object
	// existed; deleting a missing object is not an error.
	Delete(ctx context.Context, storageID string) (found bool, err error)
}
