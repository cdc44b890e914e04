package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/auth"
	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/filestorage"
	"github.com/ddct/showcase/internal/pkg/gallery"
	"github.com/ddct/showcase/internal/pkg/helpers"
	"github.com/ddct/showcase/internal/pkg/media"
	"github.com/ddct/showcase/internal/pkg/validation"
	"github.com/ddct/showcase/internal/pkg/websocket"
)

// ProjectService handles project CRUD, browsing and engagement
type ProjectService struct {
	projectRepo      *repositories.ProjectRepository
	fileRepo         *repositories.ProjectFileRepository
	userRepo         *repositories.UserRepository
	collaboratorRepo *repositories.CollaboratorRepository
	likeRepo         *repositories.LikeRepository
	eventRepo        *repositories.EventRepository
	authzService     *auth.AuthorizationService
	storage          filestorage.FileStorage
	resolver         *media.Resolver
	lobby            *websocket.Lobby
	placeholder      string
	logger           zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	repos *repositories.Repositories,
	authzService *auth.AuthorizationService,
	storage filestorage.FileStorage,
	resolver *media.Resolver,
	lobby *websocket.Lobby,
	placeholder string,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:      repos.ProjectRepository,
		fileRepo:         repos.ProjectFileRepository,
		userRepo:         repos.UserRepository,
		collaboratorRepo: repos.CollaboratorRepository,
		likeRepo:         repos.LikeRepository,
		eventRepo:        repos.EventRepository,
		authzService:     authzService,
		storage:          storage,
		resolver:         resolver,
		lobby:            lobby,
		placeholder:      placeholder,
		logger:           logger,
	}
}

// resolveFileURL resolves a file entry's display URL, normalizing
// external video links to their embeddable form
func (s *ProjectService) resolveFileURL(ctx context.Context, file *models.ProjectFile) (url, thumb string) {
	ref := file.Ref()
	if file.FileType == models.FileTypeVideo && file.IsExternal() {
		ref = media.NormalizeVideoURL(ref)
	}
	url = s.resolver.Resolve(ctx, ref, s.placeholder)

	explicit := ""
	if file.ThumbnailURL != nil {
		explicit = s.resolver.Resolve(ctx, *file.ThumbnailURL, s.placeholder)
	}
	switch {
	case explicit != "" && explicit != s.placeholder:
		thumb = explicit
	case file.FileType == models.FileTypeVideo:
		thumb = media.VideoThumbnail(ref, "", s.placeholder)
	case file.FileType == models.FileTypeImage:
		thumb = url
	default:
		thumb = s.placeholder
	}
	return url, thumb
}

// coverURL picks the display cover for a project: the cover entry if
// set, otherwise the placeholder
func (s *ProjectService) coverURL(ctx context.Context, cover *models.ProjectFile) string {
	if cover == nil {
		return s.placeholder
	}
	url, thumb := s.resolveFileURL(ctx, cover)
	if cover.FileType == models.FileTypeVideo {
		return thumb
	}
	return url
}

// CreateProject creates a project owned by the caller
func (s *ProjectService) CreateProject(ctx context.Context, ownerID int64, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	visibility := models.VisibilityPublic
	if req.Visibility != "" {
		visibility = models.Visibility(req.Visibility)
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        validation.NormalizeTags(req.Tags),
		Year:        req.Year,
		Visibility:  visibility,
		OwnerID:     ownerID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("projectID", project.ID).
		Int64("ownerID", ownerID).
		Msg("Project created")

	resp := dto.FromProject(project)
	resp.CoverURL = s.placeholder
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil {
		ownerResp := dto.FromUser(owner, "")
		resp.Owner = &ownerResp
	}
	return &resp, nil
}

// GetProject returns a project with its files, owner, collaborators and
// the viewer's like state. Unlisted projects load by direct link; the
// view is recorded here.
func (s *ProjectService) GetProject(ctx context.Context, projectID, viewerID int64) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromProject(project)

	// Owner and collaborators
	collaboratorIDs, err := s.collaboratorRepo.ListUserIDs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	userIDs := append([]int64{project.OwnerID}, collaboratorIDs...)
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	if owner, ok := users[project.OwnerID]; ok {
		ownerResp := dto.FromUser(owner, "")
		resp.Owner = &ownerResp
	}
	for _, id := range collaboratorIDs {
		if user, ok := users[id]; ok {
			resp.Collaborators = append(resp.Collaborators, dto.FromUser(user, ""))
		}
	}

	// Files in display order with resolved URLs
	files, err := s.fileRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		url, thumb := s.resolveFileURL(ctx, file)
		resp.Files = append(resp.Files, dto.FromProjectFile(file, url, thumb))
		if file.IsCover {
			resp.CoverURL = s.coverURL(ctx, file)
		}
	}
	if resp.CoverURL == "" {
		resp.CoverURL = s.placeholder
	}

	// Viewer like state
	if viewerID > 0 {
		liked, err := s.likeRepo.Exists(ctx, models.LikeEntityProject, projectID, viewerID)
		if err != nil {
			return nil, err
		}
		resp.Liked = liked
	}

	// Record the view
	var userID *int64
	if viewerID > 0 {
		userID = &viewerID
	}
	if err := s.eventRepo.Record(ctx, projectID, userID, models.EventView); err != nil {
		s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to record view event")
	} else if err := s.projectRepo.IncrementViewCount(ctx, projectID); err != nil {
		s.logger.Warn().Err(err).Int64("projectID", projectID).Msg("Failed to increment view count")
	} else {
		resp.ViewCount++
	}

	return &resp, nil
}

// ListProjects returns projects matching the filter. Only public
// projects appear unless the caller browses their own or is an admin.
func (s *ProjectService) ListProjects(ctx context.Context, viewerID int64, req *dto.ProjectFilterRequest) (*dto.ProjectListResponse, error) {
	publicOnly := true
	if viewerID > 0 {
		if req.OwnerID == viewerID {
			publicOnly = false
		} else if isAdmin, err := s.authzService.IsAdmin(ctx, viewerID); err == nil && isAdmin {
			publicOnly = false
		}
	}

	filter := repositories.ProjectFilter{
		Query:      req.Query,
		Category:   req.Category,
		Tag:        req.Tag,
		Year:       req.Year,
		OwnerID:    req.OwnerID,
		PublicOnly: publicOnly,
		Sort:       req.Sort,
	}

	offset, limit := helpers.CalculateOffsetLimit(req.Page, req.PageSize)
	projects, total, err := s.projectRepo.List(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, err
	}

	projectIDs := make([]int64, 0, len(projects))
	ownerIDs := make([]int64, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
		ownerIDs = append(ownerIDs, p.OwnerID)
	}

	covers, err := s.fileRepo.ListCovers(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	owners, err := s.userRepo.GetByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.LikedSet(ctx, models.LikeEntityProject, projectIDs, viewerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp := dto.FromProject(p)
		resp.CoverURL = s.coverURL(ctx, covers[p.ID])
		resp.Liked = liked[p.ID]
		if owner, ok := owners[p.OwnerID]; ok {
			ownerResp := dto.FromUser(owner, "")
			resp.Owner = &ownerResp
		}
		responses = append(responses, resp)
	}

	return &dto.ProjectListResponse{
		Projects:   responses,
		Pagination: helpers.NewPaginationInfo(total, req.Page, limit),
	}, nil
}

// UpdateProject edits a project. Owner, collaborator or admin only.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, userID int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.Tags != nil {
		project.Tags = validation.NormalizeTags(*req.Tags)
	}
	if req.Year != nil {
		project.Year = *req.Year
	}
	if req.Visibility != nil {
		project.Visibility = models.Visibility(*req.Visibility)
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	resp := dto.FromProject(project)
	return &resp, nil
}

// DeleteProject removes a project and its stored files
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID int64) error {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return err
	}

	files, err := s.fileRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	// Storage cleanup after the row delete; orphaned objects are better
	// than dangling rows pointing at deleted objects
	for _, file := range files {
		if file.FilePath == nil {
			continue
		}
		if err := s.storage.DeleteFile(*file.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("path", *file.FilePath).Msg("Failed to delete stored file")
		}
	}

	s.logger.Info().
		Int64("projectID", projectID).
		Int64("userID", userID).
		Msg("Project deleted")

	return nil
}

// AddCollaborator links another student to the project
func (s *ProjectService) AddCollaborator(ctx context.Context, projectID, userID, collaboratorID int64) error {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if collaboratorID == project.OwnerID {
		return apperrors.NewBadRequestError("the owner is already on the project")
	}

	if _, err := s.userRepo.GetByID(ctx, collaboratorID); err != nil {
		return err
	}

	return s.collaboratorRepo.Add(ctx, projectID, collaboratorID)
}

// RemoveCollaborator unlinks a collaborator from the project
func (s *ProjectService) RemoveCollaborator(ctx context.Context, projectID, userID, collaboratorID int64) error {
	if err := s.authzService.ValidateCanModifyProject(ctx, projectID, userID); err != nil {
		return err
	}
	return s.collaboratorRepo.Remove(ctx, projectID, collaboratorID)
}

// RecordDownload logs a download event and bumps the counter
func (s *ProjectService) RecordDownload(ctx context.Context, projectID, viewerID int64) error {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrProjectNotFound
	}

	var userID *int64
	if viewerID > 0 {
		userID = &viewerID
	}
	if err := s.eventRepo.Record(ctx, projectID, userID, models.EventDownload); err != nil {
		return err
	}
	return s.projectRepo.IncrementDownloadCount(ctx, projectID)
}

// RefreshLobby rebuilds the lobby carousel from the most viewed public
// projects' covers
func (s *ProjectService) RefreshLobby(ctx context.Context, size int) error {
	if size <= 0 {
		size = 12
	}

	projects, _, err := s.projectRepo.List(ctx, repositories.ProjectFilter{
		PublicOnly: true,
		Sort:       "views",
	}, 0, size)
	if err != nil {
		return fmt.Errorf("error loading lobby projects: %w", err)
	}

	projectIDs := make([]int64, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}
	covers, err := s.fileRepo.ListCovers(ctx, projectIDs)
	if err != nil {
		return err
	}

	items := make([]gallery.Item, 0, len(projects))
	for _, p := range projects {
		cover := covers[p.ID]
		if cover == nil {
			continue
		}
		url, thumb := s.resolveFileURL(ctx, cover)
		items = append(items, gallery.Item{
			ID:        cover.ID,
			Kind:      gallery.KindFromFileType(string(cover.FileType)),
			URL:       url,
			Thumbnail: thumb,
			IsCover:   false,
			Position:  len(items) + 1,
			CreatedAt: cover.CreatedAt,
		})
	}

	s.lobby.SetItems(items)
	s.logger.Info().Int("slides", len(items)).Msg("Lobby carousel refreshed")
	return nil
}
