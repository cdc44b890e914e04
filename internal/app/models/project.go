package models

import "time"

// Project represents a showcase project in the 'projects' table.
type Project struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Category      string     `json:"category" db:"category"`
	Tags          []string   `json:"tags" db:"tags"`
	Year          int        `json:"year" db:"year"` // Showcase year the project belongs to
	Visibility    Visibility `json:"visibility" db:"visibility"`
	OwnerID       int64      `json:"ownerId" db:"owner_id"`
	ViewCount     int64      `json:"viewCount" db:"view_count"`
	DownloadCount int64      `json:"downloadCount" db:"download_count"`
	LikeCount     int64      `json:"likeCount" db:"like_count"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations, no db tag
	Owner         *User          `json:"owner,omitempty"`
	Files         []*ProjectFile `json:"files,omitempty"`
	Collaborators []*User        `json:"collaborators,omitempty"`
}

// ProjectCollaborator links extra students to a project
type ProjectCollaborator struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
