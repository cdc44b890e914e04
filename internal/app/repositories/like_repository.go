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
	"github.com/ddct/showcase/internal/pkg/dberrors"
)

// LikeRepository handles like rows for projects and comments. The
// (entity_type, entity_id, user_id) unique constraint makes inserts
// idempotent per viewer.
type LikeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert records a like within the caller's transaction, alongside the
// counter it moves. A duplicate insert reports no error and no change,
// so retried toggles cannot double-count.
func (r *LikeRepository) Insert(ctx context.Context, tx pgx.Tx, entityType models.LikeEntity, entityID, userID int64) (bool, error) {
	sql, args, err := r.sb.Insert("likes").
		Columns("entity_type", "entity_id", "user_id", "created_at").
		Values(entityType, entityID, userID, time.Now()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert like query: %w", err)
	}

	_, err = tx.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("error inserting like: %w", err)
	}
	return true, nil
}

// Delete removes a like within the caller's transaction. Deleting an
// absent like reports no error and no change.
func (r *LikeRepository) Delete(ctx context.Context, tx pgx.Tx, entityType models.LikeEntity, entityID, userID int64) (bool, error) {
	sql, args, err := r.sb.Delete("likes").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delete like query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting like: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// Count returns the number of likes on an entity
func (r *LikeRepository) Count(ctx context.Context, entityType models.LikeEntity, entityID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("likes").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count likes query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting likes: %w", err)
	}
	return count, nil
}

// Exists reports whether a viewer has liked an entity
func (r *LikeRepository) Exists(ctx context.Context, entityType models.LikeEntity, entityID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("likes").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build like exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking like existence: %w", err)
	}
	return true, nil
}

// LikedSet returns which of the given entities the viewer has liked
func (r *LikeRepository) LikedSet(ctx context.Context, entityType models.LikeEntity, entityIDs []int64, userID int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(entityIDs))
	if len(entityIDs) == 0 || userID <= 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select("entity_id").
		From("likes").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityIDs, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build liked set query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning liked set row: %w", err)
		}
		result[id] = true
	}
	return result, rows.Err()
}
