package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddct/showcase/internal/app/models"
	"github.com/ddct/showcase/internal/app/models/dto"
)

// EventRepository records engagement events and runs the aggregation
// queries behind the analytics exports
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *EventRepository) recordQuery(projectID int64, userID *int64, eventType models.EventType) (string, []interface{}, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("project_id", "user_id", "event_type", "created_at").
		Values(projectID, userID, eventType, time.Now()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build record event query: %w", err)
	}
	return sql, args, nil
}

// Record stores one engagement event. userID is nil for anonymous views.
func (r *EventRepository) Record(ctx context.Context, projectID int64, userID *int64, eventType models.EventType) error {
	sql, args, err := r.recordQuery(projectID, userID, eventType)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error recording event: %w", err)
	}
	return nil
}

// RecordTx stores one engagement event within the caller's transaction.
// Like and unlike events commit together with the rows they audit.
func (r *EventRepository) RecordTx(ctx context.Context, tx pgx.Tx, projectID int64, userID *int64, eventType models.EventType) error {
	sql, args, err := r.recordQuery(projectID, userID, eventType)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error recording event: %w", err)
	}
	return nil
}

const eventCountColumns = `
	COUNT(e.id) FILTER (WHERE e.event_type = 'VIEW'),
	COUNT(e.id) FILTER (WHERE e.event_type = 'DOWNLOAD'),
	COUNT(e.id) FILTER (WHERE e.event_type = 'LIKE') - COUNT(e.id) FILTER (WHERE e.event_type = 'UNLIKE'),
	COUNT(e.id) FILTER (WHERE e.event_type = 'COMMENT')`

// AggregateByCategory aggregates engagement per project category
func (r *EventRepository) AggregateByCategory(ctx context.Context) ([]dto.CategoryStat, error) {
	sql := `
	SELECT p.category, COUNT(DISTINCT p.id),` + eventCountColumns + `
	FROM projects p
	LEFT JOIN events e ON e.project_id = p.id
	GROUP BY p.category
	ORDER BY p.category ASC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by category: %w", err)
	}
	defer rows.Close()

	var stats []dto.CategoryStat
	for rows.Next() {
		var s dto.CategoryStat
		if err := rows.Scan(&s.Category, &s.Projects, &s.Views, &s.Downloads, &s.Likes, &s.Comments); err != nil {
			return nil, fmt.Errorf("error scanning category stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AggregateByCohort aggregates engagement per showcase year
func (r *EventRepository) AggregateByCohort(ctx context.Context) ([]dto.CohortStat, error) {
	sql := `
	SELECT p.year, COUNT(DISTINCT p.id),` + eventCountColumns + `
	FROM projects p
	LEFT JOIN events e ON e.project_id = p.id
	GROUP BY p.year
	ORDER BY p.year DESC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by cohort: %w", err)
	}
	defer rows.Close()

	var stats []dto.CohortStat
	for rows.Next() {
		var s dto.CohortStat
		if err := rows.Scan(&s.Year, &s.Projects, &s.Views, &s.Downloads, &s.Likes, &s.Comments); err != nil {
			return nil, fmt.Errorf("error scanning cohort stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AggregateByMonth aggregates engagement per calendar month from the
// given start time. Months with no events are filled in by the caller.
func (r *EventRepository) AggregateByMonth(ctx context.Context, since time.Time) ([]dto.MonthlyStat, error) {
	sql := `
	SELECT to_char(date_trunc('month', e.created_at), 'YYYY-MM'),` + eventCountColumns + `
	FROM events e
	WHERE e.created_at >= $1
	GROUP BY 1
	ORDER BY 1 ASC`

	rows, err := r.db.Query(ctx, sql, since)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by month: %w", err)
	}
	defer rows.Close()

	var stats []dto.MonthlyStat
	for rows.Next() {
		var s dto.MonthlyStat
		if err := rows.Scan(&s.Month, &s.Views, &s.Downloads, &s.Likes, &s.Comments); err != nil {
			return nil, fmt.Errorf("error scanning monthly stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopProjects returns the highest ranked public projects by view count
// with like count as tiebreak, optionally filtered by tag or year
func (r *EventRepository) TopProjects(ctx context.Context, tag string, year, limit int) ([]dto.TopProjectStat, error) {
	query := r.sb.Select(
		"p.id", "p.title", "u.first_name || ' ' || u.last_name", "p.category",
		"p.view_count", "p.like_count").
		From("projects p").
		Join("users u ON u.id = p.owner_id").
		Where(squirrel.Eq{"p.visibility": models.VisibilityPublic}).
		OrderBy("p.view_count DESC", "p.like_count DESC", "p.id ASC").
		Limit(uint64(limit))
	if tag != "" {
		query = query.Where("? = ANY(p.tags)", tag)
	}
	if year > 0 {
		query = query.Where(squirrel.Eq{"p.year": year})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving top projects: %w", err)
	}
	defer rows.Close()

	var stats []dto.TopProjectStat
	for rows.Next() {
		var s dto.TopProjectStat
		if err := rows.Scan(&s.ProjectID, &s.Title, &s.Owner, &s.Category, &s.Views, &s.Likes); err != nil {
			return nil, fmt.Errorf("error scanning top project stat: %w", err)
		}
		s.Rank = len(stats) + 1
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
