package filestorage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ddct/showcase/internal/pkg/logger"
)

// SignedDownloadPath is the route that serves signed downloads. Routing
// registers its handler against this constant so issued URLs and the
// endpoint cannot drift apart.
const SignedDownloadPath = "/uploads/signed"

// LocalStorage handles saving files to the local filesystem.
// Stored paths are storage-relative (e.g. "projects/12/abc.png"); the
// files are served under baseURL and signed download URLs are issued
// against the signed-download endpoint with an HMAC over path and expiry.
type LocalStorage struct {
	basePath      string // The root directory where files will be stored
	baseURL       string // The base URL under which stored files are served
	signedBaseURL string // The signed-download endpoint, derived from baseURL
	signSecret    []byte // Key for signed download URLs
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is prepended to public file paths; signSecret keys signed URLs.
func NewLocalStorage(basePath, baseURL, signSecret string) (*LocalStorage, error) {
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	// Signed URLs point at the dedicated download route on the same
	// host, regardless of which path prefix serves public files.
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}
	u.Path = SignedDownloadPath
	u.RawQuery = ""

	return &LocalStorage{
		basePath:      basePath,
		baseURL:       strings.TrimRight(baseURL, "/"),
		signedBaseURL: u.String(),
		signSecret:    []byte(signSecret),
	}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory and returns
// the storage-relative path.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	// Open the uploaded file
	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Ensure the subdirectory exists
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Generate a unique filename to prevent collisions
	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext

	// Construct the full destination path
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	// Create the destination file
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	// Copy the uploaded file content to the destination file
	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		// Attempt to remove the partially created file
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storagePath := uniqueFilename
	if subPath != "" {
		storagePath = path.Join(subPath, uniqueFilename)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", storagePath).Msg("File saved successfully")
	return storagePath, nil
}

// SaveFile saves an uploaded file using the default path
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes a file from the storage filesystem.
// It accepts the storage-relative path as stored in the database.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil // Nothing to delete
	}

	physicalPath, err := ls.physicalPath(filePath)
	if err != nil {
		return err
	}

	// Check if the file exists first
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil // Consider this a successful delete (idempotent operation)
	}

	// Remove the file
	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// PublicURL returns the unauthenticated URL under which the file is served.
func (ls *LocalStorage) PublicURL(filePath string) string {
	return ls.baseURL + "/" + strings.TrimLeft(filePath, "/")
}

// SignedURL issues a time-boxed URL for the signed-download endpoint.
// The signature covers the storage path and the expiry timestamp.
func (ls *LocalStorage) SignedURL(_ context.Context, filePath string, ttl time.Duration) (string, error) {
	if len(ls.signSecret) == 0 {
		return "", fmt.Errorf("no signing secret configured")
	}
	if _, err := ls.physicalPath(filePath); err != nil {
		return "", err
	}

	expires := time.Now().Add(ttl).Unix()
	sig := ls.sign(filePath, expires)

	q := url.Values{}
	q.Set("path", filePath)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", sig)
	return ls.signedBaseURL + "?" + q.Encode(), nil
}

// VerifySignedPath checks a signed download request. It returns the full
// filesystem path when the signature is valid and unexpired.
func (ls *LocalStorage) VerifySignedPath(filePath string, expires int64, signature string) (string, error) {
	if time.Now().Unix() > expires {
		return "", fmt.Errorf("signed URL expired")
	}

	expected := ls.sign(filePath, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", fmt.Errorf("invalid signature")
	}

	return ls.physicalPath(filePath)
}

// GetFullPath returns the full filesystem path for a stored file.
// This is useful for getting the actual path for serving or deletion.
func (ls *LocalStorage) GetFullPath(filePath string) string {
	full, err := ls.physicalPath(filePath)
	if err != nil {
		return ""
	}
	return full
}

func (ls *LocalStorage) sign(filePath string, expires int64) string {
	mac := hmac.New(sha256.New, ls.signSecret)
	fmt.Fprintf(mac, "%s|%d", filePath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// physicalPath resolves a storage-relative path and rejects traversal
// outside the storage root.
func (ls *LocalStorage) physicalPath(filePath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(filePath))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid file path: %s", filePath)
	}
	return filepath.Join(ls.basePath, clean), nil
}
