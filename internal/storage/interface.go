package storage

import (
	"context"
	"io"
)

// ObjectStore is the seam to the hosted file-upload provider. The
// application only ever stores and removes small assets (thumbnails,
// banners) by key.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	RemoveObject(ctx context.Context, key string) error
	URL(key string) string
}

// Logger is the logging surface the storage services need
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
