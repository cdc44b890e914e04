package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/logger"
)

var projectFileColumns = []string{
	"id", "project_id", "file_name", "file_path", "file_url", "thumbnail_url",
	"file_size", "mime_type", "file_type", "content_kind", "is_cover", "position",
	"uploaded_by", "created_at", "updated_at",
}

// ProjectFileRepository handles project file database operations
type ProjectFileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectFileRepository creates a new ProjectFileRepository
func NewProjectFileRepository(db *pgxpool.Pool) *ProjectFileRepository {
	return &ProjectFileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProjectFile(row pgx.Row) (*models.ProjectFile, error) {
	var f models.ProjectFile
	err := row.Scan(
		&f.ID, &f.ProjectID, &f.FileName, &f.FilePath, &f.FileURL, &f.ThumbnailURL,
		&f.FileSize, &f.MimeType, &f.FileType, &f.ContentKind, &f.IsCover, &f.Position,
		&f.UploadedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new file entry at the end of the gallery ordering
func (r *ProjectFileRepository) Create(ctx context.Context, file *models.ProjectFile) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("project_files").
		Columns("project_id", "file_name", "file_path", "file_url", "thumbnail_url",
			"file_size", "mime_type", "file_type", "content_kind", "is_cover", "position",
			"uploaded_by", "created_at", "updated_at").
		Values(file.ProjectID, file.FileName, file.FilePath, file.FileURL, file.ThumbnailURL,
			file.FileSize, file.MimeType, file.FileType, file.ContentKind, file.IsCover,
			squirrel.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM project_files WHERE project_id = ?)", file.ProjectID),
			file.UploadedBy, now, now).
		Suffix("RETURNING id, position").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create project file query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.Position)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", file.ProjectID).Msg("Error executing create project file query")
		return fmt.Errorf("error creating project file: %w", err)
	}
	file.CreatedAt = now
	file.UpdatedAt = now

	return nil
}

// GetByID retrieves a file entry by ID
func (r *ProjectFileRepository) GetByID(ctx context.Context, id int64) (*models.ProjectFile, error) {
	sql, args, err := r.sb.Select(projectFileColumns...).
		From("project_files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get project file query: %w", err)
	}

	file, err := scanProjectFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectFileNotFound
		}
		return nil, fmt.Errorf("error retrieving project file: %w", err)
	}
	return file, nil
}

// ListByProject retrieves a project's files in display order: cover
// first, then ascending position with creation time as tiebreak
func (r *ProjectFileRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectFile, error) {
	sql, args, err := r.sb.Select(projectFileColumns...).
		From("project_files").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("is_cover DESC", "position ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list project files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing project files: %w", err)
	}
	defer rows.Close()

	var files []*models.ProjectFile
	for rows.Next() {
		file, err := scanProjectFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project file row: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// ListCovers returns the cover entry for each given project keyed by
// project ID, for listing pages
func (r *ProjectFileRepository) ListCovers(ctx context.Context, projectIDs []int64) (map[int64]*models.ProjectFile, error) {
	result := make(map[int64]*models.ProjectFile, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select(projectFileColumns...).
		From("project_files").
		Where(squirrel.Eq{"project_id": projectIDs, "is_cover": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list covers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing covers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		file, err := scanProjectFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning cover row: %w", err)
		}
		result[file.ProjectID] = file
	}
	return result, rows.Err()
}

// SetCover moves the cover flag to the given file within a transaction.
// Both statements commit together so the project never has two covers
// or none while one was set before.
func (r *ProjectFileRepository) SetCover(ctx context.Context, tx pgx.Tx, projectID, fileID int64) error {
	sql, args, err := r.sb.Update("project_files").
		Set("is_cover", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"project_id": projectID, "is_cover": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear cover query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error clearing existing cover: %w", err)
	}

	sql, args, err = r.sb.Update("project_files").
		Set("is_cover", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": fileID, "project_id": projectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set cover query: %w", err)
	}
	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting cover: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectFileNotFound
	}
	return nil
}

// UpdatePositions rewrites gallery positions within a transaction
func (r *ProjectFileRepository) UpdatePositions(ctx context.Context, tx pgx.Tx, projectID int64, positions map[int64]int) error {
	for fileID, position := range positions {
		sql, args, err := r.sb.Update("project_files").
			Set("position", position).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": fileID, "project_id": projectID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update position query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error updating position for file %d: %w", fileID, err)
		}
	}
	return nil
}

// Delete removes a file entry
func (r *ProjectFileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("project_files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete project file query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting project file: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectFileNotFound
	}
	return nil
}
