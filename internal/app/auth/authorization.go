package auth

import (
	"context"
	"errors"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/logger"
)

// The service reads through these narrow views of the repositories.
type userStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type projectStore interface {
	GetByID(ctx context.Context, id int64) (*models.Project, error)
}

type collaboratorStore interface {
	IsCollaborator(ctx context.Context, projectID, userID int64) (bool, error)
}

type commentStore interface {
	GetByID(ctx context.Context, id int64) (*models.ProjectComment, error)
}

// AuthorizationService answers who may modify projects and comments.
// Owners and collaborators manage their own projects; admins manage
// everything.
type AuthorizationService struct {
	userRepo         userStore
	projectRepo      projectStore
	collaboratorRepo collaboratorStore
	commentRepo      commentStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	userRepo *repositories.UserRepository,
	projectRepo *repositories.ProjectRepository,
	collaboratorRepo *repositories.CollaboratorRepository,
	commentRepo *repositories.CommentRepository,
) *AuthorizationService {
	return &AuthorizationService{
		userRepo:         userRepo,
		projectRepo:      projectRepo,
		collaboratorRepo: collaboratorRepo,
		commentRepo:      commentRepo,
	}
}

// IsAdmin checks if the user has the admin role
func (s *AuthorizationService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user in IsAdmin")
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// CanModifyProject checks if the user owns, collaborates on, or
// administers the given project
func (s *AuthorizationService) CanModifyProject(ctx context.Context, projectID, userID int64) (bool, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}

	if project.OwnerID == userID {
		return true, nil
	}

	isCollaborator, err := s.collaboratorRepo.IsCollaborator(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	if isCollaborator {
		return true, nil
	}

	return s.IsAdmin(ctx, userID)
}

// ValidateCanModifyProject returns ErrPermissionDenied unless the user
// may modify the project
func (s *AuthorizationService) ValidateCanModifyProject(ctx context.Context, projectID, userID int64) error {
	allowed, err := s.CanModifyProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// CanModifyComment checks if the user authored the comment or is an
// admin. Editing another person's words is off limits even for the
// project owner.
func (s *AuthorizationService) CanModifyComment(ctx context.Context, commentID, userID int64) (bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}

	if comment.AuthorID == userID {
		return true, nil
	}

	return s.IsAdmin(ctx, userID)
}

// ValidateCanModifyComment returns ErrPermissionDenied unless the user
// may modify the comment
func (s *AuthorizationService) ValidateCanModifyComment(ctx context.Context, commentID, userID int64) error {
	allowed, err := s.CanModifyComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// CanDeleteComment checks if the user authored the comment, owns the
// project it sits on, or is an admin. Removal is broader than editing:
// owners moderate their own project pages.
func (s *AuthorizationService) CanDeleteComment(ctx context.Context, commentID, userID int64) (bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, err
	}

	if comment.AuthorID == userID {
		return true, nil
	}

	project, err := s.projectRepo.GetByID(ctx, comment.ProjectID)
	if err != nil {
		return false, err
	}
	if project.OwnerID == userID {
		return true, nil
	}

	return s.IsAdmin(ctx, userID)
}

// ValidateCanDeleteComment returns ErrPermissionDenied unless the user
// may delete the comment
func (s *AuthorizationService) ValidateCanDeleteComment(ctx context.Context, commentID, userID int64) error {
	allowed, err := s.CanDeleteComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
