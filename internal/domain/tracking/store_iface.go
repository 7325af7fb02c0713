package tracking

import (
	"context"
	"time"
)

// StoreAPI is the persistence contract of the timer state machine.
// FinishActiveTimer and ReplaceActiveTimer must be atomic: the entry
// insert and the timer delete/replace succeed or fail together.
type StoreAPI interface {
	InsertActiveTimer(ctx context.Context, t ActiveTimer) (ActiveTimer, error)
	GetActiveTimer(ctx context.Context, companyID, userID string) (ActiveTimer, error)
	DeleteActiveTimer(ctx context.Context, companyID, userID string) error
	FinishActiveTimer(ctx context.Context, companyID, userID string, entry TimeEntry) (TimeEntry, error)
	ReplaceActiveTimer(ctx context.Context, companyID, userID string, entry TimeEntry, next ActiveTimer) (TimeEntry, ActiveTimer, error)

	InsertEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	UpdateEntry(ctx context.Context, entry TimeEntry) error
	DeleteEntry(ctx context.Context, companyID, userID, entryID string) error
	ListEntries(ctx context.Context, companyID, userID string, from, to time.Time) ([]TimeEntry, error)
}
