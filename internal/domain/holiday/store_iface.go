package holiday

import (
	"context"
	"time"
)

type StoreAPI interface {
	// ListPublic returns national holidays plus regional ones matching
	// the region, restricted to the date range.
	ListPublic(ctx context.Context, regionCode string, from, to time.Time) ([]Holiday, error)
	// ListCompany returns company holidays whose literal date falls in
	// the range plus every recurring company holiday.
	ListCompany(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)
	Insert(ctx context.Context, h Holiday) (string, error)
	Delete(ctx context.Context, companyID, holidayID string) error
	UpsertNational(ctx context.Context, h Holiday) error
}

// CompanyDirectory exposes the company attributes the oracle needs.
type CompanyDirectory interface {
	CompanyRegion(ctx context.Context, companyID string) (*string, error)
}
