package calendar

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"timeclock/internal/domain/absence"
	"timeclock/internal/domain/core"
	"timeclock/internal/domain/holiday"
	"timeclock/internal/domain/schedule"
	"timeclock/internal/domain/tracking"
	"timeclock/internal/platform/clock"
)

var ErrInvalidRange = errors.New("end of range must be on or after its start")

// The calendar consumes its four data sources through these
// capabilities so the provider packages never depend on this one.
type (
	ScheduleSource interface {
		Effective(ctx context.Context, companyID, userID string) (schedule.EffectiveSchedule, error)
	}
	HolidaySource interface {
		Resolve(ctx context.Context, companyID string, from, to time.Time) ([]holiday.Holiday, error)
	}
	AbsenceSource interface {
		ApprovedInRange(ctx context.Context, companyID, userID string, from, to time.Time) ([]absence.Absence, error)
	}
	EntrySource interface {
		ListEntries(ctx context.Context, companyID, userID string, from, to time.Time) ([]tracking.TimeEntry, error)
	}
	UserSource interface {
		GetUser(ctx context.Context, companyID, userID string) (core.User, error)
	}
)

type Service struct {
	Schedules ScheduleSource
	Holidays  HolidaySource
	Absences  AbsenceSource
	Entries   EntrySource
	Users     UserSource
	Clock     clock.Clock
}

func NewService(schedules ScheduleSource, holidays HolidaySource, absences AbsenceSource, entries EntrySource, users UserSource, clk clock.Clock) *Service {
	return &Service{
		Schedules: schedules,
		Holidays:  holidays,
		Absences:  absences,
		Entries:   entries,
		Users:     users,
		Clock:     clk,
	}
}

// Range builds the calendar for an arbitrary inclusive date range.
func (s *Service) Range(ctx context.Context, companyID, userID string, from, to time.Time) (Result, error) {
	if to.Before(from) {
		return Result{}, ErrInvalidRange
	}
	return s.build(ctx, companyID, userID, from, to, nil)
}

// Month builds the calendar for one month padded to full weeks. The
// month argument is 0-indexed (0 = January), matching the calendar API
// surface; other month-based surfaces in this system are 1-indexed.
func (s *Service) Month(ctx context.Context, companyID, userID string, year, month int) (Result, error) {
	monthStart := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	from, to := PadToWeeks(monthStart, monthEnd)
	return s.build(ctx, companyID, userID, from, to, &MonthBounds{Start: monthStart, End: monthEnd})
}

func (s *Service) build(ctx context.Context, companyID, userID string, from, to time.Time, bounds *MonthBounds) (Result, error) {
	user, err := s.Users.GetUser(ctx, companyID, userID)
	if err != nil {
		return Result{}, err
	}

	input := Input{
		From:          from,
		To:            to,
		Today:         s.Clock.Now(),
		UserCreatedAt: user.CreatedAt,
		MonthBounds:   bounds,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		input.Schedule, err = s.Schedules.Effective(gctx, companyID, userID)
		return err
	})
	g.Go(func() error {
		var err error
		input.Holidays, err = s.Holidays.Resolve(gctx, companyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		input.Absences, err = s.Absences.ApprovedInRange(gctx, companyID, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		input.Entries, err = s.Entries.ListEntries(gctx, companyID, userID, from, to.AddDate(0, 0, 1))
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return BuildCalendar(input), nil
}
