package filestorage

import (
	"context"
	"mime/multipart"
	"time"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile saves a file and returns the storage-relative path
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath lets you specify a subdirectory for storing the file
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error

	// SignedURL returns a time-boxed URL granting read access to the file
	SignedURL(ctx context.Context, filePath string, ttl time.Duration) (string, error)

	// PublicURL returns the unauthenticated URL for the file
	PublicURL(filePath string) string
}
