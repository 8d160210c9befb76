package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrFileNotFound = errors.New("file not found")
var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores a file under path and returns the cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file, missing files are not an error
	Delete(ctx context.Context, path string) error

	// Move relocates a file, creating the destination directories
	Move(ctx context.Context, from string, to string) error

	// GetURL generates a public URL
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

type UploadOptions struct {
	MaxSize     int64
	AllowedExts []string
}

// URLOf resolves a stored path to its public URL. A nil path, a nil storage
// or a resolution failure yields nil.
func URLOf(ctx context.Context, fs FileStorage, path *string) *string {
	if fs == nil || path == nil || *path == "" {
		return nil
	}
	url, err := fs.GetURL(ctx, *path, 0)
	if err != nil {
		return nil
	}
	return &url
}
