package holiday

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandRecurringMatchesAnyYear(t *testing.T) {
	xmas := Holiday{Name: "Company Christmas", Scope: ScopeCompany, Date: date(2020, time.December, 25), IsRecurring: true}

	for _, year := range []int{2024, 2030} {
		got := ExpandInRange([]Holiday{xmas}, date(year, time.December, 1), date(year, time.December, 31))
		if len(got) != 1 {
			t.Fatalf("year %d: expected 1 occurrence, got %d", year, len(got))
		}
		if !got[0].Date.Equal(date(year, time.December, 25)) {
			t.Fatalf("year %d: wrong occurrence date %v", year, got[0].Date)
		}
	}
}

func TestExpandRecurringSpansYearBoundary(t *testing.T) {
	newYear := Holiday{Name: "Founding Day", Scope: ScopeCompany, Date: date(2019, time.January, 2), IsRecurring: true}

	got := ExpandInRange([]Holiday{newYear}, date(2024, time.December, 15), date(2025, time.January, 15))
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	if !got[0].Date.Equal(date(2025, time.January, 2)) {
		t.Fatalf("wrong occurrence date %v", got[0].Date)
	}
}

func TestExpandSkipsFebruary29InNonLeapYears(t *testing.T) {
	leapDay := Holiday{Name: "Leap Party", Scope: ScopeCompany, Date: date(2024, time.February, 29), IsRecurring: true}

	got := ExpandInRange([]Holiday{leapDay}, date(2025, time.February, 1), date(2025, time.March, 31))
	if len(got) != 0 {
		t.Fatalf("expected no occurrence in 2025, got %d", len(got))
	}

	got = ExpandInRange([]Holiday{leapDay}, date(2028, time.February, 1), date(2028, time.March, 31))
	if len(got) != 1 {
		t.Fatalf("expected one occurrence in 2028, got %d", len(got))
	}
}

func TestExpandDeduplicatesByDateAndScope(t *testing.T) {
	literal := Holiday{Name: "Anniversary", Scope: ScopeCompany, Date: date(2024, time.June, 10)}
	recurring := Holiday{Name: "Anniversary", Scope: ScopeCompany, Date: date(2020, time.June, 10), IsRecurring: true}

	got := ExpandInRange([]Holiday{literal, recurring}, date(2024, time.June, 1), date(2024, time.June, 30))
	if len(got) != 1 {
		t.Fatalf("expected dedup to 1 entry, got %d", len(got))
	}
}

func TestExpandKeepsNationalAndRegionalOnSameDate(t *testing.T) {
	region := "CAT"
	national := Holiday{Name: "National Day", Scope: ScopeNational, Date: date(2024, time.September, 11)}
	regional := Holiday{Name: "Regional Day", Scope: ScopeRegional, RegionCode: &region, Date: date(2024, time.September, 11)}

	got := ExpandInRange([]Holiday{national, regional}, date(2024, time.September, 1), date(2024, time.September, 30))
	if len(got) != 2 {
		t.Fatalf("expected both entries retained, got %d", len(got))
	}
}

func TestExpandSortsAscending(t *testing.T) {
	holidays := []Holiday{
		{Name: "B", Scope: ScopeNational, Date: date(2024, time.May, 20)},
		{Name: "A", Scope: ScopeNational, Date: date(2024, time.May, 1)},
		{Name: "C", Scope: ScopeCompany, Date: date(2020, time.May, 10), IsRecurring: true},
	}

	got := ExpandInRange(holidays, date(2024, time.May, 1), date(2024, time.May, 31))
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date) {
			t.Fatalf("entries not sorted: %v before %v", got[i].Date, got[i-1].Date)
		}
	}
}

func TestExpandExcludesOutOfRangeLiterals(t *testing.T) {
	h := Holiday{Name: "Outside", Scope: ScopeNational, Date: date(2024, time.January, 1)}
	got := ExpandInRange([]Holiday{h}, date(2024, time.February, 1), date(2024, time.February, 29))
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}
