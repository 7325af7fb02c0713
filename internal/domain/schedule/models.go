package schedule

import "time"

// Days of week are Monday-first: 0=Monday .. 6=Sunday.
const DaysPerWeek = 7

type WorkScheduleDay struct {
	ID         string  `json:"id,omitempty"`
	CompanyID  string  `json:"companyId"`
	UserID     *string `json:"userId,omitempty"`
	DayOfWeek  int     `json:"dayOfWeek"`
	IsWorkable bool    `json:"isWorkable"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStartTime,omitempty"`
	BreakEnd   *string `json:"breakEndTime,omitempty"`
}

// EffectiveDay is one resolved weekday of a user's schedule, with the
// expected minutes already computed from the wall-clock bounds.
type EffectiveDay struct {
	DayOfWeek       int     `json:"dayOfWeek"`
	IsWorkable      bool    `json:"isWorkable"`
	StartTime       string  `json:"startTime,omitempty"`
	EndTime         string  `json:"endTime,omitempty"`
	BreakStart      *string `json:"breakStartTime,omitempty"`
	BreakEnd        *string `json:"breakEndTime,omitempty"`
	ExpectedMinutes int     `json:"expectedMinutes"`
	IsOverride      bool    `json:"isOverride"`
}

// EffectiveSchedule always holds exactly seven days, indexed by
// Monday-first day of week.
type EffectiveSchedule struct {
	Days [DaysPerWeek]EffectiveDay `json:"days"`
}

func (s EffectiveSchedule) Day(dayOfWeek int) EffectiveDay {
	if dayOfWeek < 0 || dayOfWeek >= DaysPerWeek {
		return EffectiveDay{DayOfWeek: dayOfWeek}
	}
	return s.Days[dayOfWeek]
}

// WeekdayIndex converts a time.Time weekday to the Monday-first index.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
