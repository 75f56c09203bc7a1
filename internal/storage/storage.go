package storage

import (
	"context"
	"io"
)

// Uploader archives uploaded images for audit. Optional: a nil
// uploader in the services disables archiving.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
