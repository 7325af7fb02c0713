package schedule

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func defaultWeek() []WorkScheduleDay {
	var days []WorkScheduleDay
	for d := 0; d < 5; d++ {
		days = append(days, WorkScheduleDay{
			CompanyID:  "c1",
			DayOfWeek:  d,
			IsWorkable: true,
			StartTime:  "09:00",
			EndTime:    "18:00",
			BreakStart: strPtr("13:00"),
			BreakEnd:   strPtr("14:00"),
		})
	}
	return days
}

func TestMergeOverrideWins(t *testing.T) {
	overrides := []WorkScheduleDay{{
		CompanyID:  "c1",
		UserID:     strPtr("u1"),
		DayOfWeek:  1,
		IsWorkable: true,
		StartTime:  "10:00",
		EndTime:    "14:00",
	}}

	merged, err := Merge(defaultWeek(), overrides)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	tuesday := merged.Day(1)
	if tuesday.StartTime != "10:00" || tuesday.EndTime != "14:00" {
		t.Fatalf("expected override times, got %s-%s", tuesday.StartTime, tuesday.EndTime)
	}
	if tuesday.ExpectedMinutes != 240 {
		t.Fatalf("expected 240 minutes, got %d", tuesday.ExpectedMinutes)
	}
	if !tuesday.IsOverride {
		t.Fatal("expected override flag on merged day")
	}

	monday := merged.Day(0)
	if monday.ExpectedMinutes != 480 {
		t.Fatalf("expected default 480 minutes on Monday, got %d", monday.ExpectedMinutes)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	overrides := []WorkScheduleDay{{
		CompanyID: "c1", UserID: strPtr("u1"), DayOfWeek: 3,
		IsWorkable: true, StartTime: "08:00", EndTime: "12:00",
	}}

	first, err := Merge(defaultWeek(), overrides)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	second, err := Merge(defaultWeek(), overrides)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if first != second {
		t.Fatalf("merge not idempotent: %+v vs %+v", first, second)
	}
}

func TestMergeMissingDaysAreNonWorkable(t *testing.T) {
	merged, err := Merge(defaultWeek(), nil)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	for _, day := range []int{5, 6} {
		got := merged.Day(day)
		if got.IsWorkable {
			t.Fatalf("day %d should be non-workable", day)
		}
		if got.ExpectedMinutes != 0 {
			t.Fatalf("day %d should expect 0 minutes, got %d", day, got.ExpectedMinutes)
		}
	}
}

func TestMergeOverrideOnlyDayIsIncluded(t *testing.T) {
	overrides := []WorkScheduleDay{{
		CompanyID: "c1", UserID: strPtr("u1"), DayOfWeek: 5,
		IsWorkable: true, StartTime: "10:00", EndTime: "13:00",
	}}
	merged, err := Merge(defaultWeek(), overrides)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	saturday := merged.Day(5)
	if !saturday.IsWorkable || saturday.ExpectedMinutes != 180 {
		t.Fatalf("expected workable Saturday with 180 minutes, got %+v", saturday)
	}
}

func TestExpectedMinutesFloorsAtZero(t *testing.T) {
	minutes, err := ExpectedMinutes("09:00", "10:00", strPtr("08:00"), strPtr("12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 0 {
		t.Fatalf("expected floor at 0, got %d", minutes)
	}
}

func TestExpectedMinutesIgnoresHalfOpenBreak(t *testing.T) {
	minutes, err := ExpectedMinutes("09:00", "17:00", strPtr("13:00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 480 {
		t.Fatalf("break with one bound must be ignored, got %d", minutes)
	}
}

func TestExpectedMinutesRejectsMalformedTime(t *testing.T) {
	for _, value := range []string{"9am", "24:00", "09:60", "0900", ""} {
		if _, err := ExpectedMinutes(value, "17:00", nil, nil); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("expected ErrInvalidTime for %q, got %v", value, err)
		}
	}
}

func TestMergeRejectsBadDayOfWeek(t *testing.T) {
	rows := []WorkScheduleDay{{CompanyID: "c1", DayOfWeek: 7, IsWorkable: false}}
	if _, err := Merge(rows, nil); !errors.Is(err, ErrInvalidDayOfWeek) {
		t.Fatalf("expected ErrInvalidDayOfWeek, got %v", err)
	}
}

func TestWeekdayIndexIsMondayFirst(t *testing.T) {
	monday := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := WeekdayIndex(monday); got != 0 {
		t.Fatalf("expected Monday index 0, got %d", got)
	}
	sunday := time.Date(2024, time.April, 7, 0, 0, 0, 0, time.UTC)
	if got := WeekdayIndex(sunday); got != 6 {
		t.Fatalf("expected Sunday index 6, got %d", got)
	}
}
