package services

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/repositories"
	"github.com/ddct/showcase/internal/pkg/apperrors"
	"github.com/ddct/showcase/internal/pkg/export"
	"github.com/ddct/showcase/internal/pkg/helpers"
)

// monthlyWindow is how far back the monthly report reaches
const monthlyWindow = 12

// AnalyticsService builds engagement reports for export. Every report
// produces the same table regardless of the requested format.
type AnalyticsService struct {
	eventRepo *repositories.EventRepository
	logger    zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repos *repositories.Repositories, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		eventRepo: repos.EventRepository,
		logger:    logger,
	}
}

// BuildReport runs the requested report and returns it as an export
// table
func (s *AnalyticsService) BuildReport(ctx context.Context, req *dto.AnalyticsRequest) (*export.Table, error) {
	switch req.Report {
	case "categories":
		return s.categoriesReport(ctx)
	case "cohorts":
		return s.cohortsReport(ctx)
	case "monthly":
		return s.monthlyReport(ctx, time.Now())
	case "top":
		limit := req.Limit
		if limit <= 0 {
			limit = 10
		}
		return s.topProjectsReport(ctx, req.Tag, req.Year, limit)
	default:
		return nil, apperrors.NewBadRequestError("unknown report")
	}
}

func (s *AnalyticsService) categoriesReport(ctx context.Context) (*export.Table, error) {
	stats, err := s.eventRepo.AggregateByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return categoriesTable(stats), nil
}

func (s *AnalyticsService) cohortsReport(ctx context.Context) (*export.Table, error) {
	stats, err := s.eventRepo.AggregateByCohort(ctx)
	if err != nil {
		return nil, err
	}
	return cohortsTable(stats), nil
}

func (s *AnalyticsService) monthlyReport(ctx context.Context, now time.Time) (*export.Table, error) {
	since := helpers.MonthStart(now).AddDate(0, -(monthlyWindow - 1), 0)
	stats, err := s.eventRepo.AggregateByMonth(ctx, since)
	if err != nil {
		return nil, err
	}
	return monthlyTable(fillMissingMonths(stats, since, now)), nil
}

func (s *AnalyticsService) topProjectsReport(ctx context.Context, tag string, year, limit int) (*export.Table, error) {
	stats, err := s.eventRepo.TopProjects(ctx, tag, year, limit)
	if err != nil {
		return nil, err
	}
	return topProjectsTable(stats), nil
}

// fillMissingMonths pads the aggregation with zero rows so the report
// always covers every month from since through now, in order
func fillMissingMonths(stats []dto.MonthlyStat, since, now time.Time) []dto.MonthlyStat {
	byMonth := make(map[string]dto.MonthlyStat, len(stats))
	for _, st := range stats {
		byMonth[st.Month] = st
	}

	var filled []dto.MonthlyStat
	end := helpers.MonthStart(now)
	for m := helpers.MonthStart(since); !m.After(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		if st, ok := byMonth[key]; ok {
			filled = append(filled, st)
		} else {
			filled = append(filled, dto.MonthlyStat{Month: key})
		}
	}
	return filled
}

func categoriesTable(stats []dto.CategoryStat) *export.Table {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			st.Category,
			strconv.FormatInt(st.Projects, 10),
			strconv.FormatInt(st.Views, 10),
			strconv.FormatInt(st.Downloads, 10),
			strconv.FormatInt(st.Likes, 10),
			strconv.FormatInt(st.Comments, 10),
		})
	}
	return &export.Table{
		Title:   "Engagement by Category",
		Columns: []string{"Category", "Projects", "Views", "Downloads", "Likes", "Comments"},
		Rows:    rows,
	}
}

func cohortsTable(stats []dto.CohortStat) *export.Table {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			strconv.Itoa(st.Year),
			strconv.FormatInt(st.Projects, 10),
			strconv.FormatInt(st.Views, 10),
			strconv.FormatInt(st.Downloads, 10),
			strconv.FormatInt(st.Likes, 10),
			strconv.FormatInt(st.Comments, 10),
		})
	}
	return &export.Table{
		Title:   "Engagement by Cohort",
		Columns: []string{"Year", "Projects", "Views", "Downloads", "Likes", "Comments"},
		Rows:    rows,
	}
}

func monthlyTable(stats []dto.MonthlyStat) *export.Table {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			st.Month,
			strconv.FormatInt(st.Views, 10),
			strconv.FormatInt(st.Downloads, 10),
			strconv.FormatInt(st.Likes, 10),
			strconv.FormatInt(st.Comments, 10),
		})
	}
	return &export.Table{
		Title:   "Monthly Engagement",
		Columns: []string{"Month", "Views", "Downloads", "Likes", "Comments"},
		Rows:    rows,
	}
}

func topProjectsTable(stats []dto.TopProjectStat) *export.Table {
	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, []string{
			strconv.Itoa(st.Rank),
			strconv.FormatInt(st.ProjectID, 10),
			st.Title,
			st.Owner,
			st.Category,
			strconv.FormatInt(st.Views, 10),
			strconv.FormatInt(st.Likes, 10),
		})
	}
	return &export.Table{
		Title:   "Top Projects",
		Columns: []string{"Rank", "ID", "Title", "Owner", "Category", "Views", "Likes"},
		Rows:    rows,
		Wide:    true,
	}
}
