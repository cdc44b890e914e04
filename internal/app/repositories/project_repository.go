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

var projectColumns = []string{
	"id", "title", "description", "category", "tags", "year", "visibility",
	"owner_id", "view_count", "download_count", "like_count", "created_at", "updated_at",
}

// ProjectFilter narrows a project listing
type ProjectFilter struct {
	Query      string
	Category   string
	Tag        string
	Year       int
	OwnerID    int64
	PublicOnly bool
	Sort       string
}

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Tags, &p.Year, &p.Visibility,
		&p.OwnerID, &p.ViewCount, &p.DownloadCount, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project and sets its ID
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("projects").
		Columns("title", "description", "category", "tags", "year", "visibility",
			"owner_id", "created_at", "updated_at").
		Values(project.Title, project.Description, project.Category, project.Tags,
			project.Year, project.Visibility, project.OwnerID, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create project query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&project.ID)
	if err != nil {
		logger.Error().Err(err).Str("title", project.Title).Msg("Error executing create project query")
		return fmt.Errorf("error creating project: %w", err)
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	return nil
}

// GetByID retrieves a project by ID regardless of visibility. Unlisted
// projects stay reachable by direct link; callers filter listings.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	sql, args, err := r.sb.Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get project query: %w", err)
	}

	project, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}
	return project, nil
}

// Exists reports whether a project exists
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build project exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking project existence: %w", err)
	}
	return true, nil
}

// List retrieves projects matching the filter, paginated
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]*models.Project, int64, error) {
	applyFilter := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.PublicOnly {
			q = q.Where(squirrel.Eq{"visibility": models.VisibilityPublic})
		}
		if filter.Query != "" {
			pattern := "%" + filter.Query + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"title": pattern},
				squirrel.ILike{"description": pattern},
			})
		}
		if filter.Category != "" {
			q = q.Where(squirrel.Eq{"category": filter.Category})
		}
		if filter.Tag != "" {
			q = q.Where("? = ANY(tags)", filter.Tag)
		}
		if filter.Year > 0 {
			q = q.Where(squirrel.Eq{"year": filter.Year})
		}
		if filter.OwnerID > 0 {
			q = q.Where(squirrel.Eq{"owner_id": filter.OwnerID})
		}
		return q
	}

	sql, args, err := applyFilter(r.sb.Select("COUNT(*)").From("projects")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count projects query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting projects: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "oldest":
		orderBy = "created_at ASC"
	case "views":
		orderBy = "view_count DESC"
	case "likes":
		orderBy = "like_count DESC"
	}

	sql, args, err = applyFilter(r.sb.Select(projectColumns...).From("projects")).
		OrderBy(orderBy, "id DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning project row: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, total, rows.Err()
}

// Update persists project fields editable through the API
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	sql, args, err := r.sb.Update("projects").
		Set("title", project.Title).
		Set("description", project.Description).
		Set("category", project.Category).
		Set("tags", project.Tags).
		Set("year", project.Year).
		Set("visibility", project.Visibility).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": project.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update project query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", project.ID).Msg("Error executing update project query")
		return fmt.Errorf("error updating project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// Delete removes a project. Files, comments, likes and events cascade
// at the database level.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete project query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// IncrementViewCount bumps the cached view counter
func (r *ProjectRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementDownloadCount bumps the cached download counter
func (r *ProjectRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	return r.incrementCounter(ctx, id, "download_count")
}

func (r *ProjectRepository) incrementCounter(ctx context.Context, id int64, column string) error {
	sql, args, err := r.sb.Update("projects").
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build increment %s query: %w", column, err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error incrementing %s: %w", column, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

// AdjustLikeCount shifts the cached like counter, clamped at zero. It
// runs in the caller's transaction so the counter commits with the like
// row it reflects.
func (r *ProjectRepository) AdjustLikeCount(ctx context.Context, tx pgx.Tx, id int64, delta int64) error {
	sql, args, err := r.sb.Update("projects").
		Set("like_count", squirrel.Expr("GREATEST(like_count + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build adjust like count query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error adjusting like count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
