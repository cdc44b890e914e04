package dto

import (
	"testing"
	"time"

	"github.com/ddct/showcase/internal/app/models"
)

func TestFromCommentCarriesEditMarker(t *testing.T) {
	parentID := int64(3)
	now := time.Now()
	comment := &models.ProjectComment{
		ID:        10,
		ProjectID: 4,
		ParentID:  &parentID,
		Content:   "updated take",
		LikeCount: 2,
		IsEdited:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := FromComment(comment)
	if !resp.IsEdited {
		t.Fatal("edited comment lost its edit marker in the response")
	}
	if resp.ID != 10 || resp.ProjectID != 4 || resp.Content != "updated take" {
		t.Fatalf("unexpected response fields: %+v", resp)
	}
	if resp.ParentID == nil || *resp.ParentID != parentID {
		t.Fatalf("parent ID = %v, want %d", resp.ParentID, parentID)
	}

	fresh := FromComment(&models.ProjectComment{ID: 11, ProjectID: 4, Content: "first take"})
	if fresh.IsEdited {
		t.Fatal("unedited comment reported as edited")
	}
}
