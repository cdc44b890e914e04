package models

import "time"

// ProjectFileType classifies a gallery or download entry
type ProjectFileType string

const (
	// FileTypeImage renders inline in the gallery
	FileTypeImage ProjectFileType = "IMAGE"
	// FileTypeVideo plays inline, either a stored file or an embed
	FileTypeVideo ProjectFileType = "VIDEO"
	// FileTypeDocument is a viewable attachment like a PDF
	FileTypeDocument ProjectFileType = "DOCUMENT"
	// FileTypeProject is a downloadable project bundle, such as a
	// packaged game or installer
	FileTypeProject ProjectFileType = "PROJECT"
	// FileTypeWebGL is a browser-playable build
	FileTypeWebGL ProjectFileType = "WEBGL"
	// FileTypeArchive is any other downloadable bundle
	FileTypeArchive ProjectFileType = "ARCHIVE"
)

// ContentKindExecutable marks a project bundle that contains a runnable
// binary rather than source
const ContentKindExecutable = "executable"

// ProjectFile represents one media or download entry of a project.
// Exactly one of FilePath (stored object) and FileURL (external embed)
// is set.
type ProjectFile struct {
	ID           int64           `json:"id" db:"id"`
	ProjectID    int64           `json:"projectId" db:"project_id"`
	FileName     string          `json:"fileName" db:"file_name"`
	FilePath     *string         `json:"filePath,omitempty" db:"file_path"` // Storage-relative path (nullable)
	FileURL      *string         `json:"fileUrl,omitempty" db:"file_url"`   // External URL for embeds (nullable)
	ThumbnailURL *string         `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	FileSize     int64           `json:"fileSize" db:"file_size"`
	MimeType     string          `json:"mimeType" db:"mime_type"`
	FileType     ProjectFileType `json:"fileType" db:"file_type"`
	ContentKind  *string         `json:"contentKind,omitempty" db:"content_kind"` // Refinement tag such as "executable" (nullable)
	IsCover      bool            `json:"isCover" db:"is_cover"`
	Position     int             `json:"position" db:"position"` // Explicit gallery rank, 1-based
	UploadedBy   int64           `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// IsExternal reports whether the entry points at an external URL rather
// than a stored object.
func (f *ProjectFile) IsExternal() bool {
	return f.FileURL != nil && *f.FileURL != ""
}

// Ref returns the media reference to resolve for display: the external
// URL when present, otherwise the storage path.
func (f *ProjectFile) Ref() string {
	if f.IsExternal() {
		return *f.FileURL
	}
	if f.FilePath != nil {
		return *f.FilePath
	}
	return ""
}
