// Package media uploads user images to an S3-compatible object store and hands
// back the public URL plus the storage key needed to delete them later.
package media

import (
	"context"
	"io"
)

// Asset identifies one stored object.
type Asset struct {
	URL string
	Key string
}

type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*Asset, error)
	Delete(ctx context.Context, key string) error
}
