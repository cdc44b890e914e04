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

var commentColumns = []string{
	"id", "project_id", "author_id", "parent_id", "content", "like_count",
	"is_edited", "created_at", "updated_at",
}

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanComment(row pgx.Row) (*models.ProjectComment, error) {
	var c models.ProjectComment
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.AuthorID, &c.ParentID, &c.Content, &c.LikeCount,
		&c.IsEdited, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment and sets its ID
func (r *CommentRepository) Create(ctx context.Context, comment *models.ProjectComment) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("project_comments").
		Columns("project_id", "author_id", "parent_id", "content", "created_at", "updated_at").
		Values(comment.ProjectID, comment.AuthorID, comment.ParentID, comment.Content, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", comment.ProjectID).Msg("Error executing create comment query")
		return fmt.Errorf("error creating comment: %w", err)
	}
	comment.CreatedAt = now
	comment.UpdatedAt = now

	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.ProjectComment, error) {
	sql, args, err := r.sb.Select(commentColumns...).
		From("project_comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	comment, err := scanComment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}
	return comment, nil
}

// ListTopLevel retrieves a project's top-level comments, oldest first
// so the conversation reads in posting order, paginated
func (r *CommentRepository) ListTopLevel(ctx context.Context, projectID int64, offset, limit int) ([]*models.ProjectComment, int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("project_comments").
		Where(squirrel.Eq{"project_id": projectID, "parent_id": nil}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count comments query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting comments: %w", err)
	}

	sql, args, err = r.sb.Select(commentColumns...).
		From("project_comments").
		Where(squirrel.Eq{"project_id": projectID, "parent_id": nil}).
		OrderBy("created_at ASC", "id ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.ProjectComment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, total, rows.Err()
}

// ListReplies retrieves all replies to the given top-level comments,
// oldest first so threads read top to bottom
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []int64) ([]*models.ProjectComment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.sb.Select(commentColumns...).
		From("project_comments").
		Where(squirrel.Eq{"parent_id": parentIDs}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list replies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing replies: %w", err)
	}
	defer rows.Close()

	var replies []*models.ProjectComment
	for rows.Next() {
		reply, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reply row: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// UpdateContent edits a comment's text and marks it as edited
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	sql, args, err := r.sb.Update("project_comments").
		Set("content", content).
		Set("is_edited", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

// AdjustLikeCount shifts the cached like counter, clamped at zero. It
// runs in the caller's transaction so the counter commits with the like
// row it reflects.
func (r *CommentRepository) AdjustLikeCount(ctx context.Context, tx pgx.Tx, id int64, delta int64) error {
	sql, args, err := r.sb.Update("project_comments").
		Set("like_count", squirrel.Expr("GREATEST(like_count + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build adjust comment like count query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error adjusting comment like count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment. Replies cascade at the database level.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("project_comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}
