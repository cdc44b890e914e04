package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/pkg/apperrors"
)

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeProjectStore struct {
	projects map[int64]*models.Project
}

func (f *fakeProjectStore) GetByID(_ context.Context, id int64) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProjectNotFound
}

type fakeCollaboratorStore struct {
	members map[[2]int64]bool
}

func (f *fakeCollaboratorStore) IsCollaborator(_ context.Context, projectID, userID int64) (bool, error) {
	return f.members[[2]int64{projectID, userID}], nil
}

type fakeCommentStore struct {
	comments map[int64]*models.ProjectComment
}

func (f *fakeCommentStore) GetByID(_ context.Context, id int64) (*models.ProjectComment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCommentNotFound
}

// A project owned by user 1, with a comment by user 2 on it. User 3 is
// an unrelated student, user 9 is an admin.
func newCommentFixture() *AuthorizationService {
	return &AuthorizationService{
		userRepo: &fakeUserStore{users: map[int64]*models.User{
			1: {ID: 1, Role: models.RoleStudent},
			2: {ID: 2, Role: models.RoleStudent},
			3: {ID: 3, Role: models.RoleStudent},
			9: {ID: 9, Role: models.RoleAdmin},
		}},
		projectRepo: &fakeProjectStore{projects: map[int64]*models.Project{
			10: {ID: 10, OwnerID: 1},
		}},
		collaboratorRepo: &fakeCollaboratorStore{members: map[[2]int64]bool{}},
		commentRepo: &fakeCommentStore{comments: map[int64]*models.ProjectComment{
			100: {ID: 100, ProjectID: 10, AuthorID: 2},
		}},
	}
}

func TestCanDeleteComment(t *testing.T) {
	s := newCommentFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  int64
		allowed bool
	}{
		{"author", 2, true},
		{"project owner", 1, true},
		{"admin", 9, true},
		{"bystander", 3, false},
	}
	for _, tc := range cases {
		allowed, err := s.CanDeleteComment(ctx, 100, tc.userID)
		if err != nil {
			t.Fatalf("%s: CanDeleteComment: %v", tc.name, err)
		}
		if allowed != tc.allowed {
			t.Fatalf("%s: allowed = %v, want %v", tc.name, allowed, tc.allowed)
		}
	}
}

func TestCanModifyCommentDeniesProjectOwner(t *testing.T) {
	s := newCommentFixture()
	ctx := context.Background()

	// The project owner may remove a comment but not rewrite it.
	allowed, err := s.CanModifyComment(ctx, 100, 1)
	if err != nil {
		t.Fatalf("CanModifyComment: %v", err)
	}
	if allowed {
		t.Fatal("project owner may edit another user's comment")
	}

	if err := s.ValidateCanDeleteComment(ctx, 100, 1); err != nil {
		t.Fatalf("ValidateCanDeleteComment for project owner: %v", err)
	}
}

func TestValidateCanDeleteCommentDeniesBystander(t *testing.T) {
	s := newCommentFixture()

	err := s.ValidateCanDeleteComment(context.Background(), 100, 3)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCanModifyProjectAllowsCollaborator(t *testing.T) {
	s := newCommentFixture()
	s.collaboratorRepo = &fakeCollaboratorStore{members: map[[2]int64]bool{
		{10, 3}: true,
	}}

	allowed, err := s.CanModifyProject(context.Background(), 10, 3)
	if err != nil {
		t.Fatalf("CanModifyProject: %v", err)
	}
	if !allowed {
		t.Fatal("collaborator denied project modification")
	}
}
