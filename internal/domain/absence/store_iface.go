package absence

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, a Absence) (string, error)
	Get(ctx context.Context, companyID, absenceID string) (Absence, error)
	UpdateStatus(ctx context.Context, absenceID, status string) error
	ListApprovedInRange(ctx context.Context, companyID string, userIDs []string, from, to time.Time) ([]Absence, error)
	ListForUser(ctx context.Context, companyID, userID string, from, to time.Time) ([]Absence, error)
}
