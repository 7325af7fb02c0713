package schedule

import "context"

type StoreAPI interface {
	ListDays(ctx context.Context, companyID string, userID *string) ([]WorkScheduleDay, error)
	UpsertDay(ctx context.Context, row WorkScheduleDay) (string, error)
	DeleteOverride(ctx context.Context, companyID, userID string, dayOfWeek int) error
}

// UserDirectory is the slice of the core store the schedule service
// needs for hourly-cost recalculation.
type UserDirectory interface {
	UserSalary(ctx context.Context, companyID, userID string) (float64, bool, error)
	UpdateHourlyCost(ctx context.Context, companyID, userID string, hourlyCost float64) error
	SalariedUserIDsWithoutOverride(ctx context.Context, companyID string, dayOfWeek int) ([]string, error)
}

type JobRunner interface {
	Enqueue(jobType, companyID string, run func(context.Context) (any, error))
}
