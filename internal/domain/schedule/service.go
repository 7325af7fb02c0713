package schedule

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const JobHourlyCostRecalc = "hourly_cost_recalc"

type Service struct {
	Store StoreAPI
	Users UserDirectory
	Jobs  JobRunner
}

func NewService(store StoreAPI, users UserDirectory, jobs JobRunner) *Service {
	return &Service{Store: store, Users: users, Jobs: jobs}
}

// Effective merges the company default week with the user's personal
// overrides. Both row sets are fetched concurrently.
func (s *Service) Effective(ctx context.Context, companyID, userID string) (EffectiveSchedule, error) {
	var defaults, overrides []WorkScheduleDay

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		defaults, err = s.Store.ListDays(gctx, companyID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.Store.ListDays(gctx, companyID, &userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return EffectiveSchedule{}, err
	}

	return Merge(defaults, overrides)
}

// SaveCompanyDay upserts a company-default weekday and queues an hourly
// cost recalculation for every salaried user whose effective schedule
// the change reaches (no personal override for that weekday).
func (s *Service) SaveCompanyDay(ctx context.Context, row WorkScheduleDay) (string, error) {
	if err := validateDay(row); err != nil {
		return "", err
	}
	row.UserID = nil
	id, err := s.Store.UpsertDay(ctx, row)
	if err != nil {
		return "", err
	}

	if s.Jobs != nil {
		companyID := row.CompanyID
		dayOfWeek := row.DayOfWeek
		s.Jobs.Enqueue(JobHourlyCostRecalc, companyID, func(jobCtx context.Context) (any, error) {
			return s.recalculateCompany(jobCtx, companyID, dayOfWeek)
		})
	}
	return id, nil
}

// SaveUserDay upserts a personal override and recalculates only that
// user's hourly cost.
func (s *Service) SaveUserDay(ctx context.Context, row WorkScheduleDay, userID string) (string, error) {
	if err := validateDay(row); err != nil {
		return "", err
	}
	row.UserID = &userID
	id, err := s.Store.UpsertDay(ctx, row)
	if err != nil {
		return "", err
	}

	if s.Jobs != nil {
		companyID := row.CompanyID
		s.Jobs.Enqueue(JobHourlyCostRecalc, companyID, func(jobCtx context.Context) (any, error) {
			updated, err := s.RecalculateUserCost(jobCtx, companyID, userID)
			return map[string]any{"usersUpdated": boolToInt(updated)}, err
		})
	}
	return id, nil
}

func (s *Service) RemoveUserDay(ctx context.Context, companyID, userID string, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek >= DaysPerWeek {
		return ErrInvalidDayOfWeek
	}
	if err := s.Store.DeleteOverride(ctx, companyID, userID, dayOfWeek); err != nil {
		return err
	}
	if s.Jobs != nil {
		s.Jobs.Enqueue(JobHourlyCostRecalc, companyID, func(jobCtx context.Context) (any, error) {
			updated, err := s.RecalculateUserCost(jobCtx, companyID, userID)
			return map[string]any{"usersUpdated": boolToInt(updated)}, err
		})
	}
	return nil
}

// HourlyCostFromSalary computes the hourly cost for an explicit salary
// without persisting anything.
func (s *Service) HourlyCostFromSalary(ctx context.Context, companyID, userID string, monthlySalary float64) (float64, error) {
	sched, err := s.Effective(ctx, companyID, userID)
	if err != nil {
		return 0, err
	}
	return HourlyCost(monthlySalary, sched), nil
}

// RecalculateUserCost refreshes the stored hourly cost for one user.
// Users without a salary on file are skipped.
func (s *Service) RecalculateUserCost(ctx context.Context, companyID, userID string) (bool, error) {
	salary, hasSalary, err := s.Users.UserSalary(ctx, companyID, userID)
	if err != nil {
		return false, err
	}
	if !hasSalary {
		return false, nil
	}

	sched, err := s.Effective(ctx, companyID, userID)
	if err != nil {
		return false, err
	}
	cost := HourlyCost(salary, sched)
	if err := s.Users.UpdateHourlyCost(ctx, companyID, userID, cost); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) recalculateCompany(ctx context.Context, companyID string, dayOfWeek int) (any, error) {
	userIDs, err := s.Users.SalariedUserIDsWithoutOverride(ctx, companyID, dayOfWeek)
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, userID := range userIDs {
		ok, err := s.RecalculateUserCost(ctx, companyID, userID)
		if err != nil {
			slog.Warn("hourly cost recalc failed", "companyId", companyID, "userId", userID, "err", err)
			continue
		}
		if ok {
			updated++
		}
	}
	return map[string]any{"usersUpdated": updated, "usersConsidered": len(userIDs)}, nil
}

func validateDay(row WorkScheduleDay) error {
	if row.DayOfWeek < 0 || row.DayOfWeek >= DaysPerWeek {
		return ErrInvalidDayOfWeek
	}
	if !row.IsWorkable {
		return nil
	}
	_, err := ExpectedMinutes(row.StartTime, row.EndTime, row.BreakStart, row.BreakEnd)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
