package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/services"
	"github.com/ddct/showcase/internal/middleware"
)

// CommentController handles comment operations
type CommentController struct {
	commentService *services.CommentService
	likeService    *services.LikeService
	logger         zerolog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, likeService *services.LikeService, logger zerolog.Logger) *CommentController {
	return &CommentController{
		commentService: commentService,
		likeService:    likeService,
		logger:         logger,
	}
}

// ListComments godoc
// @Summary List a project's comments
// @Description Returns a page of top-level comments in posting order, each with its reply thread
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.CommentListResponse}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	viewerID := middleware.CurrentUserID(ctx)
	comments, err := c.commentService.ListComments(ctx.Request.Context(), id, viewerID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: comments,
	})
}

// CreateComment godoc
// @Summary Post a comment
// @Description Posts a comment or a reply on a project. Replies attach to top-level comments only.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param request body dto.CreateCommentRequest true "Comment content"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request or nested reply"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	authorID := middleware.CurrentUserID(ctx)
	comment, err := c.commentService.CreateComment(ctx.Request.Context(), id, authorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: comment,
	})
}

// UpdateComment godoc
// @Summary Edit a comment
// @Description Edits a comment's content. Author or admin only.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path int true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{commentId} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment ID"),
		})
		return
	}

	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	comment, err := c.commentService.UpdateComment(ctx.Request.Context(), commentID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: comment,
	})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Removes a comment and its replies. Allowed for the author, the project owner, and admins.
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.commentService.DeleteComment(ctx.Request.Context(), commentID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Comment deleted successfully"},
	})
}

// ToggleLike godoc
// @Summary Toggle a comment like
// @Description Flips the caller's like on the comment and returns the settled state
// @Tags likes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeStateResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{commentId}/likes [post]
func (c *CommentController) ToggleLike(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	state, err := c.likeService.Toggle(ctx.Request.Context(), "comment", commentID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: state,
	})
}

// GetLikeState godoc
// @Summary Get a comment's like state
// @Description Returns the like count and whether the caller has liked the comment
// @Tags likes
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeStateResponse}
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{commentId}/likes [get]
func (c *CommentController) GetLikeState(ctx *gin.Context) {
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid comment ID"),
		})
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	state, err := c.likeService.GetState(ctx.Request.Context(), "comment", commentID, viewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: state,
	})
}
