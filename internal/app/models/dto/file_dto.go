package dto

import (
	"time"

	"github.com/ddct/showcase/internal/app/models"
)

// ProjectFileResponse represents a gallery or download entry
type ProjectFileResponse struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"projectId"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	FileType     string    `json:"fileType"`
	ContentKind  string    `json:"contentKind,omitempty"`
	IsCover      bool      `json:"isCover"`
	Position     int       `json:"position"`
	External     bool      `json:"external"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromProjectFile converts a models.ProjectFile to a response. The
// display URL is resolved by the caller since stored objects need
// signing.
func FromProjectFile(file *models.ProjectFile, url, thumbnailURL string) ProjectFileResponse {
	contentKind := ""
	if file.ContentKind != nil {
		contentKind = *file.ContentKind
	}
	return ProjectFileResponse{
		ID:           file.ID,
		ProjectID:    file.ProjectID,
		FileName:     file.FileName,
		URL:          url,
		ThumbnailURL: thumbnailURL,
		FileSize:     file.FileSize,
		MimeType:     file.MimeType,
		FileType:     string(file.FileType),
		ContentKind:  contentKind,
		IsCover:      file.IsCover,
		Position:     file.Position,
		External:     file.IsExternal(),
		CreatedAt:    file.CreatedAt,
	}
}

// AddExternalMediaRequest attaches an external embed (video link,
// hosted demo, browser build) to a project
type AddExternalMediaRequest struct {
	URL          string `json:"url" binding:"required,url"`
	FileName     string `json:"fileName" binding:"required"`
	FileType     string `json:"fileType" binding:"required,oneof=IMAGE VIDEO DOCUMENT WEBGL"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" binding:"omitempty,url"`
}

// UploadFileOptions carries the optional multipart form fields that
// refine an upload's classification
type UploadFileOptions struct {
	FileType    string `form:"fileType" binding:"omitempty,oneof=IMAGE VIDEO DOCUMENT PROJECT WEBGL ARCHIVE"`
	ContentKind string `form:"contentKind" binding:"omitempty,max=40"`
}

// ReorderFileRequest moves a gallery entry one step in the ordering
type ReorderFileRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}
