package calendar

import (
	"math"
	"time"

	"timeclock/internal/domain/holiday"
	"timeclock/internal/domain/schedule"
	"timeclock/internal/domain/tracking"
)

// BuildCalendar classifies every date in [input.From, input.To] and
// computes the summary over the in-scope days. Pure: identical inputs
// always produce identical output.
func BuildCalendar(input Input) Result {
	from := truncateDay(input.From)
	to := truncateDay(input.To)
	today := truncateDay(input.Today)
	createdOn := truncateDay(input.UserCreatedAt)

	publicByDate, companyByDate := indexHolidays(input.Holidays)
	entriesByDate := indexEntries(input.Entries)

	var days []Day
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dow := schedule.WeekdayIndex(d)
		schedDay := input.Schedule.Day(dow)

		expected := 0
		if schedDay.IsWorkable {
			expected = schedDay.ExpectedMinutes
		}

		dateKey := d.Format("2006-01-02")
		entries := entriesByDate[dateKey]
		logged := 0
		for _, e := range entries {
			if e.EntryType == tracking.EntryWork {
				logged += e.DurationMinutes
			}
		}

		day := Day{
			Date:            d,
			DayOfWeek:       dow,
			ExpectedMinutes: expected,
			LoggedMinutes:   logged,
			Entries:         entries,
		}
		if input.MonthBounds != nil {
			day.IsOutsideMonth = d.Before(truncateDay(input.MonthBounds.Start)) || d.After(truncateDay(input.MonthBounds.End))
		}

		absenceType := coveringAbsence(input, d)

		switch {
		case d.Before(createdOn):
			day.Status = StatusBeforeUserCreated
		case d.After(today):
			day.Status = StatusFuture
		case publicByDate[dateKey] != nil:
			day.Status = StatusPublicHoliday
			day.HolidayName = holidayName(*publicByDate[dateKey])
		case companyByDate[dateKey] != nil:
			day.Status = StatusCompanyHoliday
			day.HolidayName = holidayName(*companyByDate[dateKey])
		case absenceType != nil:
			day.Status = StatusAbsence
			day.AbsenceType = absenceType
		case expected == 0:
			day.Status = StatusNonWorkingDay
			if logged > 0 {
				day.IsOvertime = true
			}
		case logged >= expected:
			day.Status = StatusWorked
		case logged > 0:
			day.Status = StatusPartiallyWorked
		default:
			day.Status = StatusMissingLogs
		}

		days = append(days, day)
	}

	return Result{Days: days, Summary: summarize(days)}
}

func summarize(days []Day) Summary {
	var s Summary
	for _, day := range days {
		if day.IsOutsideMonth {
			continue
		}
		if day.ExpectedMinutes > 0 && day.Status != StatusFuture && day.Status != StatusBeforeUserCreated {
			s.WorkingDays++
			s.TotalExpectedMinutes += day.ExpectedMinutes
		}
		switch day.Status {
		case StatusWorked, StatusPartiallyWorked:
			s.DaysWorked++
		case StatusMissingLogs:
			s.DaysMissing++
		case StatusPublicHoliday:
			s.PublicHolidays++
		case StatusCompanyHoliday:
			s.CompanyHolidays++
		case StatusAbsence:
			s.AbsenceDays++
		}
		s.TotalLoggedMinutes += day.LoggedMinutes
	}
	if s.TotalExpectedMinutes > 0 {
		s.CompliancePercentage = int(math.Round(float64(s.TotalLoggedMinutes) / float64(s.TotalExpectedMinutes) * 100))
	}
	return s
}

// PadToWeeks widens a month to full Monday-start calendar weeks.
func PadToWeeks(monthStart, monthEnd time.Time) (time.Time, time.Time) {
	from := monthStart.AddDate(0, 0, -schedule.WeekdayIndex(monthStart))
	to := monthEnd.AddDate(0, 0, 6-schedule.WeekdayIndex(monthEnd))
	return from, to
}

// indexHolidays splits resolved holidays into public (national or
// regional) and company maps keyed by date. Public holidays win over
// company ones; within a class the first entry for a date is kept.
func indexHolidays(holidays []holiday.Holiday) (map[string]*holiday.Holiday, map[string]*holiday.Holiday) {
	public := make(map[string]*holiday.Holiday)
	company := make(map[string]*holiday.Holiday)
	for i := range holidays {
		h := holidays[i]
		key := h.Date.Format("2006-01-02")
		if h.IsPublic() {
			if public[key] == nil {
				public[key] = &holidays[i]
			}
		} else if company[key] == nil {
			company[key] = &holidays[i]
		}
	}
	return public, company
}

func indexEntries(entries []tracking.TimeEntry) map[string][]tracking.TimeEntry {
	byDate := make(map[string][]tracking.TimeEntry)
	for _, e := range entries {
		key := e.StartTime.UTC().Format("2006-01-02")
		byDate[key] = append(byDate[key], e)
	}
	return byDate
}

// coveringAbsence returns the type of the first approved absence
// covering the date; overlapping absences never count a day twice
// because classification happens once per date.
func coveringAbsence(input Input, d time.Time) *string {
	for i := range input.Absences {
		if input.Absences[i].Covers(d) {
			return &input.Absences[i].Type
		}
	}
	return nil
}

func holidayName(h holiday.Holiday) *string {
	if h.LocalName != nil && *h.LocalName != "" {
		return h.LocalName
	}
	name := h.Name
	return &name
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
