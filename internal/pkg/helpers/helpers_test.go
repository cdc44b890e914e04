package helpers

import (
	"testing"
	"time"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	if offset != 40 || limit != 20 {
		t.Fatalf("expected offset 40 limit 20, got %d %d", offset, limit)
	}

	// Out-of-range size falls back to the default
	offset, limit = CalculateOffsetLimit(2, 500)
	if limit != DefaultPageSize {
		t.Fatalf("expected default limit %d, got %d", DefaultPageSize, limit)
	}
	if offset != uint64(DefaultPageSize) {
		t.Fatalf("expected offset %d, got %d", DefaultPageSize, offset)
	}

	// Page below 1 resets to the first page
	offset, _ = CalculateOffsetLimit(0, 10)
	if offset != 0 {
		t.Fatalf("expected offset 0 for page 0, got %d", offset)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 10)
	if info.TotalPages != 5 {
		t.Fatalf("expected 5 pages, got %d", info.TotalPages)
	}
	if info.CurrentPage != 2 || info.PageSize != 10 || info.TotalItems != 45 {
		t.Fatalf("unexpected pagination info %+v", info)
	}

	// Page past the end is clamped
	info = NewPaginationInfo(10, 9, 10)
	if info.CurrentPage != 1 {
		t.Fatalf("expected current page clamped to 1, got %d", info.CurrentPage)
	}

	// Empty result set still reports one page for page 1
	info = NewPaginationInfo(0, 1, 10)
	if info.TotalPages != 1 {
		t.Fatalf("expected 1 page for empty set, got %d", info.TotalPages)
	}
}

func TestParseDuration(t *testing.T) {
	if d := ParseDuration("90m", time.Hour); d != 90*time.Minute {
		t.Fatalf("expected 90m, got %v", d)
	}
	if d := ParseDuration("not-a-duration", time.Hour); d != time.Hour {
		t.Fatalf("expected fallback 1h, got %v", d)
	}
	if d := ParseDuration("", 15*time.Minute); d != 15*time.Minute {
		t.Fatalf("expected fallback 15m, got %v", d)
	}
}

func TestMonthStart(t *testing.T) {
	in := time.Date(2026, time.March, 17, 13, 45, 59, 0, time.UTC)
	got := MonthStart(in)
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
