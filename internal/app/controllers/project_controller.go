package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/services"
	"github.com/ddct/showcase/internal/middleware"
)

// ProjectController handles project operations
type ProjectController struct {
	projectService *services.ProjectService
	likeService    *services.LikeService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService *services.ProjectService, likeService *services.LikeService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		likeService:    likeService,
		logger:         logger,
	}
}

// ListProjects godoc
// @Summary Browse projects
// @Description Lists public projects with search, filtering and sorting
// @Tags projects
// @Accept json
// @Produce json
// @Param q query string false "Search in title and description"
// @Param category query string false "Filter by category"
// @Param tag query string false "Filter by tag"
// @Param year query int false "Filter by showcase year"
// @Param ownerId query int false "Filter by owner"
// @Param sort query string false "Sort order: newest, oldest, views, likes"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Router /projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	var filter dto.ProjectFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	projects, err := c.projectService.ListProjects(ctx.Request.Context(), viewerID, &filter)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list projects")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: projects,
	})
}

// GetProject godoc
// @Summary Get a project
// @Description Returns a project with its gallery, owner, collaborators and the caller's like state. Unlisted projects load by direct link.
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid project ID"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	project, err := c.projectService.GetProject(ctx.Request.Context(), id, viewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: project,
	})
}

// CreateProject godoc
// @Summary Create a project
// @Description Creates a project owned by the caller
// @Tags projects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	ownerID := middleware.CurrentUserID(ctx)
	project, err := c.projectService.CreateProject(ctx.Request.Context(), ownerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: project,
	})
}

// UpdateProject godoc
// @Summary Update a project
// @Description Edits a project. Owner, collaborator or admin only.
// @Tags projects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [put]
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	project, err := c.projectService.UpdateProject(ctx.Request.Context(), id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: project,
	})
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Removes a project, its files, comments and likes. Owner, collaborator or admin only.
// @Tags projects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id} [delete]
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.projectService.DeleteProject(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Project deleted successfully"},
	})
}

// AddCollaborator godoc
// @Summary Add a collaborator
// @Description Links another user to the project as a collaborator
// @Tags projects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param request body dto.CollaboratorRequest true "Collaborator user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Project or user not found"
// @Failure 409 {object} dto.ErrorResponse "Already a collaborator"
// @Router /projects/{id}/collaborators [post]
func (c *ProjectController) AddCollaborator(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	var req dto.CollaboratorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.projectService.AddCollaborator(ctx.Request.Context(), id, userID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Collaborator added successfully"},
	})
}

// RemoveCollaborator godoc
// @Summary Remove a collaborator
// @Description Unlinks a collaborator from the project
// @Tags projects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param userId path int true "Collaborator user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Collaborator not found"
// @Router /projects/{id}/collaborators/{userId} [delete]
func (c *ProjectController) RemoveCollaborator(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}
	collaboratorID, ok := parseIDParam(ctx, "userId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.projectService.RemoveCollaborator(ctx.Request.Context(), id, userID, collaboratorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Collaborator removed successfully"},
	})
}

// RecordDownload godoc
// @Summary Record a download
// @Description Logs a download of the project's materials and bumps its counter
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/downloads [post]
func (c *ProjectController) RecordDownload(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	if err := c.projectService.RecordDownload(ctx.Request.Context(), id, viewerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Download recorded"},
	})
}

// ToggleLike godoc
// @Summary Toggle a project like
// @Description Flips the caller's like on the project and returns the settled state. The count also fans out over the project's websocket topic.
// @Tags likes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeStateResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/likes [post]
func (c *ProjectController) ToggleLike(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	state, err := c.likeService.Toggle(ctx.Request.Context(), "project", id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: state,
	})
}

// GetLikeState godoc
// @Summary Get a project's like state
// @Description Returns the like count and whether the caller has liked the project
// @Tags likes
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeStateResponse}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/likes [get]
func (c *ProjectController) GetLikeState(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	state, err := c.likeService.GetState(ctx.Request.Context(), "project", id, viewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: state,
	})
}
