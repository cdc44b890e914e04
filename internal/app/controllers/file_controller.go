package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/services"
	"github.com/ddct/showcase/internal/middleware"
	"github.com/ddct/showcase/internal/pkg/filestorage"
)

// FileController handles project media operations
type FileController struct {
	fileService  *services.FileService
	localStorage *filestorage.LocalStorage // nil when running on GCS
	logger       zerolog.Logger
}

// NewFileController creates a new FileController
func NewFileController(fileService *services.FileService, localStorage *filestorage.LocalStorage, logger zerolog.Logger) *FileController {
	return &FileController{
		fileService:  fileService,
		localStorage: localStorage,
		logger:       logger,
	}
}

// ListFiles godoc
// @Summary List a project's media
// @Description Returns the project's media entries in display order with resolved URLs
// @Tags files
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectFileResponse}
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /projects/{id}/files [get]
func (c *FileController) ListFiles(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	files, err := c.fileService.ListFiles(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: files,
	})
}

// UploadFile godoc
// @Summary Upload a file
// @Description Stores an uploaded file and appends it to the project's gallery
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param file formData file true "File to upload"
// @Param fileType formData string false "Override the sniffed classification" Enums(IMAGE, VIDEO, DOCUMENT, PROJECT, WEBGL, ARCHIVE)
// @Param contentKind formData string false "Content kind tag, e.g. executable"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectFileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid or oversized file"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /projects/{id}/files [post]
func (c *FileController) UploadFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file"),
		})
		return
	}

	var opts dto.UploadFileOptions
	if err := ctx.ShouldBind(&opts); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	file, err := c.fileService.UploadFile(ctx.Request.Context(), id, userID, fileHeader, &opts)
	if err != nil {
		c.logger.Error().Err(err).Int64("projectID", id).Msg("Failed to upload file")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: file,
	})
}

// AddExternalMedia godoc
// @Summary Add external media
// @Description Attaches a hosted media URL (YouTube, Vimeo, image CDN) to the project
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param request body dto.AddExternalMediaRequest true "External media data"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectFileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /projects/{id}/media [post]
func (c *FileController) AddExternalMedia(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}

	var req dto.AddExternalMediaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	file, err := c.fileService.AddExternalMedia(ctx.Request.Context(), id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: file,
	})
}

// DeleteFile godoc
// @Summary Delete a media entry
// @Description Removes a media entry and, for uploads, its stored object
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /projects/{id}/files/{fileId} [delete]
func (c *FileController) DeleteFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}
	fileID, ok := parseIDParam(ctx, "fileId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.fileService.DeleteFile(ctx.Request.Context(), id, fileID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "File deleted successfully"},
	})
}

// SetCover godoc
// @Summary Set the project cover
// @Description Marks an image entry as the project's cover. Exactly one cover per project.
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "File is not an image"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /projects/{id}/files/{fileId}/cover [put]
func (c *FileController) SetCover(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}
	fileID, ok := parseIDParam(ctx, "fileId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file ID"),
		})
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if err := c.fileService.SetCover(ctx.Request.Context(), id, fileID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Cover updated successfully"},
	})
}

// ReorderFile godoc
// @Summary Reorder a media entry
// @Description Moves a media entry one step up or down and returns the reordered gallery
// @Tags files
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Project ID"
// @Param fileId path int true "File ID"
// @Param request body dto.ReorderFileRequest true "Direction: up or down"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectFileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid direction"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /projects/{id}/files/{fileId}/position [put]
func (c *FileController) ReorderFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid project ID"),
		})
		return
	}
	fileID, ok := parseIDParam(ctx, "fileId")
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid file ID"),
		})
		return
	}

	var req dto.ReorderFileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	userID := middleware.CurrentUserID(ctx)
	files, err := c.fileService.ReorderFile(ctx.Request.Context(), id, fileID, userID, req.Direction)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: files,
	})
}

// ServeSignedFile godoc
// @Summary Download a stored file
// @Description Serves a stored file against a signed URL. Links come from media resolution and expire.
// @Tags files
// @Produce octet-stream
// @Param path query string true "Storage-relative file path"
// @Param expires query int true "Expiry unix timestamp"
// @Param signature query string true "HMAC signature"
// @Success 200 {file} binary
// @Failure 403 {object} dto.ErrorResponse "Signature invalid or expired"
// @Router /uploads/signed [get]
func (c *FileController) ServeSignedFile(ctx *gin.Context) {
	if c.localStorage == nil {
		// GCS issues its own signed URLs; this endpoint only exists for
		// local storage
		ctx.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Signed downloads are not served here"),
		})
		return
	}

	filePath := ctx.Query("path")
	signature := ctx.Query("signature")
	expires, err := strconv.ParseInt(ctx.Query("expires"), 10, 64)
	if err != nil || filePath == "" || signature == "" {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing or invalid signed URL parameters"),
		})
		return
	}

	physicalPath, err := c.localStorage.VerifySignedPath(filePath, expires, signature)
	if err != nil {
		ctx.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Signed URL invalid or expired"),
		})
		return
	}

	ctx.File(physicalPath)
}
