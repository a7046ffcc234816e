package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves binary assets (profile pictures, raw resume
// files) and resolves a retrievable URL for stored objects.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	URL(storageKey string) string
}
