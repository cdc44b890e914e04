package dto

import (
	"time"

	"github.com/ddct/showcase/internal/app/models"
)

// CreateCommentRequest posts a comment or a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=2000"`
	ParentID *int64 `json:"parentId,omitempty" binding:"omitempty,min=1"`
}

// UpdateCommentRequest edits a comment's content
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentResponse represents a comment with its flattened replies
type CommentResponse struct {
	ID        int64             `json:"id"`
	ProjectID int64             `json:"projectId"`
	ParentID  *int64            `json:"parentId,omitempty"`
	Content   string            `json:"content"`
	Author    *UserResponse     `json:"author,omitempty"`
	LikeCount int64             `json:"likeCount"`
	Liked     bool              `json:"liked"`
	IsEdited  bool              `json:"isEdited"`
	Replies   []CommentResponse `json:"replies,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// FromComment converts a models.ProjectComment to a CommentResponse
// without author or reply expansion.
func FromComment(comment *models.ProjectComment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		ProjectID: comment.ProjectID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		LikeCount: comment.LikeCount,
		IsEdited:  comment.IsEdited,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// CommentListResponse represents a paginated comment listing
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination PaginationInfo    `json:"pagination"`
}
