package dto

import (
	"time"

	"github.com/ddct/showcase/internal/app/models"
)

// CreateProjectRequest represents a new project submission
type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,max=160"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Tags        []string `json:"tags"`
	Year        int      `json:"year" binding:"required,min=2000"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=PUBLIC UNLISTED"`
}

// UpdateProjectRequest represents a project edit. Nil fields are left
// unchanged.
type UpdateProjectRequest struct {
	Title       *string   `json:"title,omitempty" binding:"omitempty,max=160"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Year        *int      `json:"year,omitempty" binding:"omitempty,min=2000"`
	Visibility  *string   `json:"visibility,omitempty" binding:"omitempty,oneof=PUBLIC UNLISTED"`
}

// ProjectFilterRequest represents browse and search filters
type ProjectFilterRequest struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Year     int    `form:"year"`
	OwnerID  int64  `form:"ownerId"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest oldest views likes"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID            int64                 `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	Tags          []string              `json:"tags"`
	Year          int                   `json:"year"`
	Visibility    string                `json:"visibility"`
	Owner         *UserResponse         `json:"owner,omitempty"`
	Collaborators []UserResponse        `json:"collaborators,omitempty"`
	CoverURL      string                `json:"coverUrl"`
	Files         []ProjectFileResponse `json:"files,omitempty"`
	ViewCount     int64                 `json:"viewCount"`
	DownloadCount int64                 `json:"downloadCount"`
	LikeCount     int64                 `json:"likeCount"`
	Liked         bool                  `json:"liked"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// FromProject converts a models.Project to a ProjectResponse. Media
// URLs (cover, files) are attached by the service after resolution.
func FromProject(project *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:            project.ID,
		Title:         project.Title,
		Description:   project.Description,
		Category:      project.Category,
		Tags:          project.Tags,
		Year:          project.Year,
		Visibility:    string(project.Visibility),
		ViewCount:     project.ViewCount,
		DownloadCount: project.DownloadCount,
		LikeCount:     project.LikeCount,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// ProjectListResponse represents a paginated project listing
type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination PaginationInfo    `json:"pagination"`
}

// CollaboratorRequest adds a collaborator to a project
type CollaboratorRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}

// LikeStateResponse reports the like state after a toggle or read
type LikeStateResponse struct {
	EntityType string `json:"entityType"`
	EntityID   int64  `json:"entityId"`
	Count      int64  `json:"count"`
	Liked      bool   `json:"liked"`
}
