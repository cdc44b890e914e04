package models

import "time"

// ProjectComment represents a comment on a project. Replies reference a
// top-level comment through ParentID; threads are a single level deep.
type ProjectComment struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"projectId" db:"project_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"` // Nullable, set on replies
	Content   string    `json:"content" db:"content"`
	LikeCount int64     `json:"likeCount" db:"like_count"`
	IsEdited  bool      `json:"isEdited" db:"is_edited"` // Set once the content changes after posting
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations, no db tag
	Author  *User             `json:"author,omitempty"`
	Replies []*ProjectComment `json:"replies,omitempty"`
}
