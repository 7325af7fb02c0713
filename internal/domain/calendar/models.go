package calendar

import (
	"time"

	"timeclock/internal/domain/absence"
	"timeclock/internal/domain/holiday"
	"timeclock/internal/domain/schedule"
	"timeclock/internal/domain/tracking"
)

type DayStatus string

const (
	StatusWorked            DayStatus = "WORKED"
	StatusPartiallyWorked   DayStatus = "PARTIALLY_WORKED"
	StatusMissingLogs       DayStatus = "MISSING_LOGS"
	StatusNonWorkingDay     DayStatus = "NON_WORKING_DAY"
	StatusPublicHoliday     DayStatus = "PUBLIC_HOLIDAY"
	StatusCompanyHoliday    DayStatus = "COMPANY_HOLIDAY"
	StatusAbsence           DayStatus = "ABSENCE"
	StatusFuture            DayStatus = "FUTURE"
	StatusBeforeUserCreated DayStatus = "BEFORE_USER_CREATED"
)

var AllStatuses = []DayStatus{
	StatusWorked, StatusPartiallyWorked, StatusMissingLogs,
	StatusNonWorkingDay, StatusPublicHoliday, StatusCompanyHoliday,
	StatusAbsence, StatusFuture, StatusBeforeUserCreated,
}

// Day is one classified calendar date. Computed, never stored.
type Day struct {
	Date            time.Time            `json:"date"`
	DayOfWeek       int                  `json:"dayOfWeek"`
	Status          DayStatus            `json:"status"`
	HolidayName     *string              `json:"holidayName,omitempty"`
	AbsenceType     *string              `json:"absenceType,omitempty"`
	ExpectedMinutes int                  `json:"expectedMinutes"`
	LoggedMinutes   int                  `json:"loggedMinutes"`
	Entries         []tracking.TimeEntry `json:"entries,omitempty"`
	IsOvertime      bool                 `json:"isOvertime,omitempty"`
	IsOutsideMonth  bool                 `json:"isOutsideMonth,omitempty"`
}

type Summary struct {
	WorkingDays          int `json:"workingDays"`
	DaysWorked           int `json:"daysWorked"`
	DaysMissing          int `json:"daysMissing"`
	PublicHolidays       int `json:"publicHolidays"`
	CompanyHolidays      int `json:"companyHolidays"`
	AbsenceDays          int `json:"absenceDays"`
	TotalExpectedMinutes int `json:"totalExpectedMinutes"`
	TotalLoggedMinutes   int `json:"totalLoggedMinutes"`
	CompliancePercentage int `json:"compliancePercentage"`
}

// MonthBounds marks the real month inside a padded month query; days
// outside it are flagged and excluded from the summary.
type MonthBounds struct {
	Start time.Time
	End   time.Time
}

// Input is everything the aggregation needs, already fetched. The
// builder itself performs no I/O.
type Input struct {
	From          time.Time
	To            time.Time
	Today         time.Time
	UserCreatedAt time.Time
	Schedule      schedule.EffectiveSchedule
	Holidays      []holiday.Holiday
	Absences      []absence.Absence
	Entries       []tracking.TimeEntry
	MonthBounds   *MonthBounds
}

type Result struct {
	Days    []Day   `json:"days"`
	Summary Summary `json:"summary"`
}
