package absence

import "time"

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeVacation = "VACATION"
	TypeSickness = "SICKNESS"
	TypePersonal = "PERSONAL"
	TypeOther    = "OTHER"
)

var Types = []string{TypeVacation, TypeSickness, TypePersonal, TypeOther}

// Absence is a requested span of days off; start and end dates are both
// inclusive. Only APPROVED absences reach the calendar.
type Absence struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	UserID    string    `json:"userId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Covers reports whether the absence includes the given date.
func (a Absence) Covers(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(a.StartDate.Year(), a.StartDate.Month(), a.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(a.EndDate.Year(), a.EndDate.Month(), a.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
