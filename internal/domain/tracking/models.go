package tracking

import "time"

const (
	EntryWork          = "WORK"
	EntryPauseCoffee   = "PAUSE_COFFEE"
	EntryPauseLunch    = "PAUSE_LUNCH"
	EntryPausePersonal = "PAUSE_PERSONAL"
)

var EntryTypes = []string{EntryWork, EntryPauseCoffee, EntryPauseLunch, EntryPausePersonal}

// TimeEntry is a finished tracking span. Entries are immutable once
// created except through the explicit edit path.
type TimeEntry struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	UserID          string    `json:"userId"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	EntryType       string    `json:"entryType"`
	ProjectID       *string   `json:"projectId,omitempty"`
	IsInOffice      bool      `json:"isInOffice"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// ActiveTimer is the single in-progress session a user may have.
// Uniqueness per user is a storage-level invariant.
type ActiveTimer struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	UserID       string    `json:"userId"`
	StartedAt    time.Time `json:"startedAt"`
	EntryType    string    `json:"entryType"`
	ProjectID    *string   `json:"projectId,omitempty"`
	IsInOffice   bool      `json:"isInOffice"`
	LocationMeta *string   `json:"locationMeta,omitempty"`
}

type StartInput struct {
	EntryType    string  `json:"entryType,omitempty"`
	ProjectID    *string `json:"projectId,omitempty"`
	IsInOffice   bool    `json:"isInOffice"`
	LocationMeta *string `json:"locationMeta,omitempty"`
}

// SwitchResult carries the closed entry of the old session together
// with the replacement timer.
type SwitchResult struct {
	Entry TimeEntry   `json:"entry"`
	Timer ActiveTimer `json:"timer"`
}
