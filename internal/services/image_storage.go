package services

import (
	"context"
	"io"
)

// ImageStorage is the object store recipe images are written to. Both the GCS bucket
// service and the local filesystem store satisfy it.
type ImageStorage interface {
	Upload(ctx context.Context, key string, file io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
