package storage

import (
	"context"
	"io"
)

// Uploader stores dispute attachments and returns a stable path or URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
