package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/ddct/showcase/internal/pkg/logger"
)

// GCSStorage stores files in a Google Cloud Storage bucket and issues
// V4 signed URLs for reads.
type GCSStorage struct {
	client    *storage.Client
	bucket    string
	cdnDomain string // optional, used for public URLs
}

// NewGCSStorage creates a GCS-backed storage for the given bucket.
// credentialsFile may be empty, in which case application default
// credentials are used.
func NewGCSStorage(ctx context.Context, bucket, cdnDomain, credentialsFile string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info().Str("bucket", bucket).Msg("GCS storage initialized")
	return &GCSStorage{
		client:    client,
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}, nil
}

// SaveFileWithPath uploads the file under the given key prefix and returns
// the storage-relative object key.
func (gs *GCSStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	key := uuid.New().String() + ext
	if subPath != "" {
		key = path.Join(subPath, key)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	w := gs.client.Bucket(gs.bucket).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File uploaded to GCS")
	return key, nil
}

// SaveFile uploads the file under the bucket root.
func (gs *GCSStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return gs.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes an object from the bucket. A missing object is
// treated as already deleted.
func (gs *GCSStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	o := gs.client.Bucket(gs.bucket).Object(filePath)
	if err := o.Delete(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			logger.Warn().Str("key", filePath).Msg("GCS object to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", filePath, gs.bucket, err)
	}
	return nil
}

// SignedURL returns a V4 signed URL for reading the object.
func (gs *GCSStorage) SignedURL(_ context.Context, filePath string, ttl time.Duration) (string, error) {
	u, err := gs.client.Bucket(gs.bucket).SignedURL(filePath, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %q: %w", filePath, err)
	}
	return u, nil
}

// PublicURL returns the unauthenticated object URL, preferring the CDN
// domain when one is configured.
func (gs *GCSStorage) PublicURL(filePath string) string {
	key := strings.TrimLeft(filePath, "/")
	if gs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", gs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", gs.bucket, key)
}

// Close releases the underlying client.
func (gs *GCSStorage) Close() error {
	return gs.client.Close()
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if s == "" {
		return ""
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(s, ".mp4"), strings.HasSuffix(s, ".m4v"):
		return "video/mp4"
	case strings.HasSuffix(s, ".webm"):
		return "video/webm"
	case strings.HasSuffix(s, ".mov"):
		return "video/quicktime"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".zip"):
		return "application/zip"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}
