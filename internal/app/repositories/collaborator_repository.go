package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/dberrors"
)

// CollaboratorRepository handles project collaborator links
type CollaboratorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCollaboratorRepository creates a new CollaboratorRepository
func NewCollaboratorRepository(db *pgxpool.Pool) *CollaboratorRepository {
	return &CollaboratorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add links a user to a project as a collaborator
func (r *CollaboratorRepository) Add(ctx context.Context, projectID, userID int64) error {
	sql, args, err := r.sb.Insert("project_collaborators").
		Columns("project_id", "user_id", "created_at").
		Values(projectID, userID, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add collaborator query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollaboratorExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error adding collaborator: %w", err)
	}
	return nil
}

// Remove unlinks a collaborator from a project
func (r *CollaboratorRepository) Remove(ctx context.Context, projectID, userID int64) error {
	sql, args, err := r.sb.Delete("project_collaborators").
		Where(squirrel.Eq{"project_id": projectID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove collaborator query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing collaborator: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCollaboratorNotFound
	}
	return nil
}

// ListUserIDs returns the collaborator user IDs of a project
func (r *CollaboratorRepository) ListUserIDs(ctx context.Context, projectID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("project_collaborators").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list collaborators query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing collaborators: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning collaborator row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// IsCollaborator reports whether the user collaborates on the project
func (r *CollaboratorRepository) IsCollaborator(ctx context.Context, projectID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("project_collaborators").
		Where(squirrel.Eq{"project_id": projectID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is collaborator query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking collaborator: %w", err)
	}
	return true, nil
}
