package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/auth"
	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/db"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/filestorage"
	"github.com/ddct/showcase/internal/pkg/gallery"
	"github.com/ddct/showcase/internal/pkg/media"
)

// FileService manages a project's media entries: uploaded files,
// external links, the cover and display order
type FileService struct {
	fileRepo     *repositories.ProjectFileRepository
	projectRepo  *repositories.ProjectRepository
	authzService *auth.AuthorizationService
	storage      filestorage.FileStorage
	resolver     *media.Resolver
	database     *db.PostgresDB
	placeholder  string
	maxUploadMB  int64
	logger       zerolog.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	repos *repositories.Repositories,
	authzService *auth.AuthorizationService,
	storage filestorage.FileStorage,
	resolver *media.Resolver,
	database *db.PostgresDB,
	placeholder string,
	maxUploadMB int64,
	logger zerolog.Logger,
) *FileService {
	return &FileService{
		fileRepo:     repos.ProjectFileRepository,
		projectRepo:  repos.ProjectRepository,
		authzService: authzService,
		storage:      storage,
		resolver:     resolver,
		database:     database,
		placeholder:  placeholder,
		maxUploadMB:  maxUploadMB,
		logger:       logger,
	}
}

// classifyUpload maps the upload's MIME type and extension to a file
// type. Unknown binaries land in ARCHIVE so they stay downloadable
// but never enter the gallery rotation.
func classifyUpload(fileHeader *multipart.FileHeader) models.ProjectFileType {
	mimeType := fileHeader.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.FileTypeVideo
	case mimeType == "application/pdf":
		return models.FileTypeDocument
	}

	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return models.FileTypeImage
	case ".mp4", ".mov", ".webm", ".mkv":
		return models.FileTypeVideo
	case ".pdf", ".md", ".txt", ".pptx", ".key":
		return models.FileTypeDocument
	case ".zip", ".apk", ".exe", ".app", ".dmg":
		// Packaged builds. WebGL builds also arrive zipped and cannot
		// be told apart by extension; the uploader marks those via the
		// fileType form field.
		return models.FileTypeProject
	default:
		return models.FileTypeArchive
	}
}

func (s *FileService) toResponse(ctx context.Context, file *models.ProjectFile) dto.ProjectFileResponse {
	ref := file.Ref()
	if file.FileType == models.FileTypeVideo && file.IsExternal() {
		ref = media.NormalizeVideoURL(ref)
	}
	url := s.resolver.Resolve(ctx, ref, s.placeholder)

	thumb := ""
	if file.ThumbnailURL != nil {
		thumb = s.resolver.Resolve(ctx, *file.ThumbnailURL, s.placeholder)
	}
	if thumb == "" || thumb == s.placeholder {
		switch file.FileType {
		case models.FileTypeVideo:
			thumb = media.VideoThumbnail(ref, "", s.placeholder)
		case models.FileTypeImage:
			thumb = url
		default:
			thumb = s.placeholder
		}
	}
	return dto.FromProjectFile(file, url, thumb)
}

// UploadFile stores an uploaded file under the project's directory and
// creates its entry at the end of the gallery. The options may override
// the sniffed classification and tag the content kind.
func (s *FileService) UploadFile(ctx context.Context, projectID, userID int64, fileHeader *multipart.FileHeader, opts *dto.UploadFileOptions) (*dto.ProjectFileResponse, error) {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	if fileHeader.Size > s.maxUploadMB*1024*1024 {
		return nil, apperrors.NewBadRequestError("file exceeds the maximum upload size")
	}

	subDir := fmt.Sprintf("projects/%d", projectID)
	filePath, err := s.storage.SaveFileWithPath(fileHeader, subDir)
	if err != nil {
		s.logger.Error().Err(err).Int64("projectID", projectID).Msg("Failed to store uploaded file")
		return nil, err
	}

	fileType := classifyUpload(fileHeader)
	var contentKind *string
	if opts != nil {
		if opts.FileType != "" {
			fileType = models.ProjectFileType(opts.FileType)
		}
		if opts.ContentKind != "" {
			kind := strings.ToLower(strings.TrimSpace(opts.ContentKind))
			contentKind = &kind
		}
	}

	file := &models.ProjectFile{
		ProjectID:   projectID,
		FileName:    fileHeader.Filename,
		FilePath:    &filePath,
		FileSize:    fileHeader.Size,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		FileType:    fileType,
		ContentKind: contentKind,
		UploadedBy:  userID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Orphaned object cleanup on row failure
		if delErr := s.storage.DeleteFile(filePath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", filePath).Msg("Failed to clean up stored file")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("fileID", file.ID).
		Str("fileType", string(file.FileType)).
		Msg("File uploaded")

	resp := s.toResponse(ctx, file)
	return &resp, nil
}

// AddExternalMedia attaches a hosted media URL to the project. Video
// links are normalized to their embeddable form before storage.
func (s *FileService) AddExternalMedia(ctx context.Context, projectID, userID int64, req *dto.AddExternalMediaRequest) (*dto.ProjectFileResponse, error) {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	fileType := models.ProjectFileType(req.FileType)
	url := req.URL
	if fileType == models.FileTypeVideo {
		url = media.NormalizeVideoURL(url)
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = url
	}

	file := &models.ProjectFile{
		ProjectID:  projectID,
		FileName:   fileName,
		FileURL:    &url,
		FileType:   fileType,
		UploadedBy: userID,
	}
	if req.ThumbnailURL != "" {
		file.ThumbnailURL = &req.ThumbnailURL
	} else if fileType == models.FileTypeVideo {
		if thumb := media.VideoThumbnail(url, "", ""); thumb != "" {
			file.ThumbnailURL = &thumb
		}
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	resp := s.toResponse(ctx, file)
	return &resp, nil
}

// ListFiles returns the project's media entries in display order with
// resolved URLs
func (s *FileService) ListFiles(ctx context.Context, projectID int64) ([]dto.ProjectFileResponse, error) {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrProjectNotFound
	}

	files, err := s.fileRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProjectFileResponse, 0, len(files))
	for _, file := range files {
		responses = append(responses, s.toResponse(ctx, file))
	}
	return responses, nil
}

// DeleteFile removes a media entry and, for uploads, its stored object
func (s *FileService) DeleteFile(ctx context.Context, projectID, fileID, userID int64) error {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return err
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.ProjectID != projectID {
		return apperrors.ErrProjectFileNotFound
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return err
	}

	if file.FilePath != nil {
		if err := s.storage.DeleteFile(*file.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("path", *file.FilePath).Msg("Failed to delete stored file")
		}
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("fileID", fileID).
		Msg("Project file deleted")

	return nil
}

// SetCover marks an image entry as the project's cover. The old cover
// is cleared and the new one set in a single transaction so the
// project never carries two covers.
func (s *FileService) SetCover(ctx context.Context, projectID, fileID, userID int64) error {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return err
	}

	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.ProjectID != projectID {
		return apperrors.ErrProjectFileNotFound
	}
	if file.FileType != models.FileTypeImage {
		return apperrors.ErrCoverMustBeImage
	}

	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.fileRepo.SetCover(ctx, tx, projectID, fileID)
	})
}

// ReorderFile moves a media entry one step up or down in the gallery
// and persists the renumbered positions atomically
func (s *FileService) ReorderFile(ctx context.Context, projectID, fileID, userID int64, direction string) ([]dto.ProjectFileResponse, error) {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	items := make([]gallery.Item, 0, len(files))
	found := false
	for _, file := range files {
		if file.ID == fileID {
			found = true
		}
		items = append(items, gallery.Item{
			ID:        file.ID,
			Kind:      gallery.KindFromFileType(string(file.FileType)),
			IsCover:   file.IsCover,
			Position:  file.Position,
			CreatedAt: file.CreatedAt,
		})
	}
	if !found {
		return nil, apperrors.ErrProjectFileNotFound
	}

	switch direction {
	case "up":
		items = gallery.MoveUp(items, fileID)
	case "down":
		items = gallery.MoveDown(items, fileID)
	default:
		return nil, apperrors.NewBadRequestError("direction must be up or down")
	}

	positions := make(map[int64]int, len(items))
	for _, item := range items {
		positions[item.ID] = item.Position
	}
	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.fileRepo.UpdatePositions(ctx, tx, projectID, positions)
	})
	if err != nil {
		return nil, err
	}

	return s.ListFiles(ctx, projectID)
}
