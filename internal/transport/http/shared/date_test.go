package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateAcceptsBothFormats(t *testing.T) {
	fromDate, err := ParseDate("2024-04-02")
	if err != nil {
		t.Fatalf("date-only parse failed: %v", err)
	}
	if fromDate.Year() != 2024 || fromDate.Month() != time.April || fromDate.Day() != 2 {
		t.Fatalf("unexpected date: %v", fromDate)
	}

	fromRFC, err := ParseDate("2024-04-02T09:30:00Z")
	if err != nil {
		t.Fatalf("rfc3339 parse failed: %v", err)
	}
	if fromRFC.Hour() != 9 || fromRFC.Minute() != 30 {
		t.Fatalf("unexpected time: %v", fromRFC)
	}

	if _, err := ParseDate("02/04/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}

	zero, err := ParseDate("")
	if err != nil || !zero.IsZero() {
		t.Fatalf("expected zero time for empty input, got %v, %v", zero, err)
	}
}

func TestIntQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/?year=2024&month=abc", nil)
	if got := IntQuery(r, "year", 0); got != 2024 {
		t.Fatalf("expected 2024, got %d", got)
	}
	if got := IntQuery(r, "month", -1); got != -1 {
		t.Fatalf("expected fallback for malformed value, got %d", got)
	}
	if got := IntQuery(r, "absent", 7); got != 7 {
		t.Fatalf("expected fallback for absent value, got %d", got)
	}
}
