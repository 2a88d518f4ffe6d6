package ports

import (
	"context"
	"io"
)

// StoragePort stores uploaded course thumbnails and user avatars.
type StoragePort interface {
	// UploadFile stores file at path and returns its public URL.
	UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error)

	// DeleteFile removes path. A missing file is not an error.
	DeleteFile(ctx context.Context, path string) error

	GetFileURL(path string) string

	// GetProviderName returns local or s3.
	GetProviderName() string
}
