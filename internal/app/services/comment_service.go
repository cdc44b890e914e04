package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/auth"
	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/helpers"
)

// CommentService handles commenting on projects. Threads are a single
// level deep: replies attach to a top-level comment, never to another
// reply.
type CommentService struct {
	commentRepo  *repositories.CommentRepository
	projectRepo  *repositories.ProjectRepository
	userRepo     *repositories.UserRepository
	likeRepo     *repositories.LikeRepository
	eventRepo    *repositories.EventRepository
	authzService *auth.AuthorizationService
	logger       zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(repos *repositories.Repositories, authzService *auth.AuthorizationService, logger zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo:  repos.CommentRepository,
		projectRepo:  repos.ProjectRepository,
		userRepo:     repos.UserRepository,
		likeRepo:     repos.LikeRepository,
		eventRepo:    repos.EventRepository,
		authzService: authzService,
		logger:       logger,
	}
}

// CreateComment posts a comment or reply on a project
func (s *CommentService) CreateComment(ctx context.Context, projectID, authorID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrProjectNotFound
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != projectID {
			return nil, apperrors.NewBadRequestError("parent comment belongs to a different project")
		}
		if parent.ParentID != nil {
			return nil, apperrors.NewBadRequestError("replies cannot be nested")
		}
	}

	comment := &models.ProjectComment{
		ProjectID: projectID,
		AuthorID:  authorID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Record(ctx, projectID, &authorID, models.EventComment); err != nil {
		s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to record comment event")
	}

	resp := dto.FromComment(comment)
	if author, err := s.userRepo.GetByID(ctx, authorID); err == nil {
		authorResp := dto.FromUser(author, "")
		resp.Author = &authorResp
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("commentID", comment.ID).
		Msg("Comment created")

	return &resp, nil
}

// ListComments returns a page of top-level comments in posting order,
// each carrying its full reply thread oldest first
func (s *CommentService) ListComments(ctx context.Context, projectID, viewerID int64, page, pageSize int) (*dto.CommentListResponse, error) {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrProjectNotFound
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	topLevel, total, err := s.commentRepo.ListTopLevel(ctx, projectID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	parentIDs := make([]int64, 0, len(topLevel))
	for _, c := range topLevel {
		parentIDs = append(parentIDs, c.ID)
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	// Collect everything needed for author and like expansion
	commentIDs := make([]int64, 0, len(topLevel)+len(replies))
	authorIDs := make([]int64, 0, len(topLevel)+len(replies))
	for _, c := range topLevel {
		commentIDs = append(commentIDs, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
	}
	for _, c := range replies {
		commentIDs = append(commentIDs, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
	}

	authors, err := s.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.LikedSet(ctx, models.LikeEntityComment, commentIDs, viewerID)
	if err != nil {
		return nil, err
	}

	toResponse := func(c *models.ProjectComment) dto.CommentResponse {
		resp := dto.FromComment(c)
		resp.Liked = liked[c.ID]
		if author, ok := authors[c.AuthorID]; ok {
			authorResp := dto.FromUser(author, "")
			resp.Author = &authorResp
		}
		return resp
	}

	repliesByParent := make(map[int64][]dto.CommentResponse)
	for _, c := range replies {
		repliesByParent[*c.ParentID] = append(repliesByParent[*c.ParentID], toResponse(c))
	}

	responses := make([]dto.CommentResponse, 0, len(topLevel))
	for _, c := range topLevel {
		resp := toResponse(c)
		resp.Replies = repliesByParent[c.ID]
		responses = append(responses, resp)
	}

	return &dto.CommentListResponse{
		Comments:   responses,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// UpdateComment edits a comment's content. Author or admin only.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID int64, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.authzService.ValidateCanModifyComment(ctx, commentID, userID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateContent(ctx, commentID, req.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromComment(comment)
	if author, err := s.userRepo.GetByID(ctx, comment.AuthorID); err == nil {
		authorResp := dto.FromUser(author, "")
		resp.Author = &authorResp
	}
	return &resp, nil
}

// DeleteComment removes a comment and its replies. The author, the
// owner of the project it sits on, and admins may delete.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID int64) error {
	if err := s.authzService.ValidateCanDeleteComment(ctx, commentID, userID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("commentID", commentID).
		Int64("userID", userID).
		Msg("Comment deleted")

	return nil
}
