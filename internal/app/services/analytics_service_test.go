package services

import (
	"testing"
	"time"

	"github.com/ddct/showcase/internal/app/models/dto"
)

func TestFillMissingMonthsPadsGaps(t *testing.T) {
	now := time.Date(2026, time.April, 15, 12, 0, 0, 0, time.UTC)
	since := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	stats := []dto.MonthlyStat{
		{Month: "2026-01", Views: 5},
		{Month: "2026-03", Views: 2, Likes: 1},
	}

	filled := fillMissingMonths(stats, since, now)

	if len(filled) != 4 {
		t.Fatalf("expected 4 months, got %d", len(filled))
	}
	want := []string{"2026-01", "2026-02", "2026-03", "2026-04"}
	for i, month := range want {
		if filled[i].Month != month {
			t.Fatalf("month %d: expected %s, got %s", i, month, filled[i].Month)
		}
	}
	if filled[0].Views != 5 {
		t.Fatalf("expected January views preserved, got %d", filled[0].Views)
	}
	if filled[1].Views != 0 || filled[1].Likes != 0 {
		t.Fatalf("expected zero row for February, got %+v", filled[1])
	}
	if filled[2].Likes != 1 {
		t.Fatalf("expected March likes preserved, got %d", filled[2].Likes)
	}
}

func TestFillMissingMonthsCrossesYearBoundary(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	since := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	filled := fillMissingMonths(nil, since, now)

	want := []string{"2025-11", "2025-12", "2026-01", "2026-02"}
	if len(filled) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(filled))
	}
	for i, month := range want {
		if filled[i].Month != month {
			t.Fatalf("month %d: expected %s, got %s", i, month, filled[i].Month)
		}
	}
}

func TestCategoriesTableLayout(t *testing.T) {
	table := categoriesTable([]dto.CategoryStat{
		{Category: "Interactive Installation", Projects: 3, Views: 120, Downloads: 8, Likes: 40, Comments: 12},
	})

	if table.Title != "Engagement by Category" {
		t.Fatalf("unexpected title %q", table.Title)
	}
	if len(table.Columns) != 6 {
		t.Fatalf("expected 6 columns, got %d", len(table.Columns))
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	row := table.Rows[0]
	if row[0] != "Interactive Installation" || row[2] != "120" || row[4] != "40" {
		t.Fatalf("unexpected row %v", row)
	}
	if len(row) != len(table.Columns) {
		t.Fatalf("row width %d does not match columns %d", len(row), len(table.Columns))
	}
}

func TestTopProjectsTableIsWide(t *testing.T) {
	table := topProjectsTable([]dto.TopProjectStat{
		{Rank: 1, ProjectID: 7, Title: "Neon Garden", Owner: "Ada Calder", Category: "Projection", Views: 900, Likes: 210},
	})

	if !table.Wide {
		t.Fatal("expected top projects table to render landscape")
	}
	row := table.Rows[0]
	if row[0] != "1" || row[2] != "Neon Garden" || row[6] != "210" {
		t.Fatalf("unexpected row %v", row)
	}
}
