package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"timeclock/internal/platform/clock"
)

// Service is the timer state machine. A user is Idle (no ActiveTimer
// row) or Running (exactly one); every transition below maps to one
// atomic store operation.
type Service struct {
	Store StoreAPI
	Clock clock.Clock
}

func NewService(store StoreAPI, clk clock.Clock) *Service {
	return &Service{Store: store, Clock: clk}
}

// Start moves Idle -> Running. A second start for the same user loses
// the storage-level uniqueness race and gets ErrTimerAlreadyRunning.
func (s *Service) Start(ctx context.Context, companyID, userID string, input StartInput) (ActiveTimer, error) {
	entryType := input.EntryType
	if entryType == "" {
		entryType = EntryWork
	}
	if !validEntryType(entryType) {
		return ActiveTimer{}, fmt.Errorf("%w: unknown entry type %q", ErrInvalidEntry, entryType)
	}

	return s.Store.InsertActiveTimer(ctx, ActiveTimer{
		CompanyID:    companyID,
		UserID:       userID,
		StartedAt:    s.Clock.Now(),
		EntryType:    entryType,
		ProjectID:    input.ProjectID,
		IsInOffice:   input.IsInOffice,
		LocationMeta: input.LocationMeta,
	})
}

// Stop moves Running -> Idle, converting the timer into a TimeEntry.
func (s *Service) Stop(ctx context.Context, companyID, userID string) (TimeEntry, error) {
	timer, err := s.Store.GetActiveTimer(ctx, companyID, userID)
	if err != nil {
		return TimeEntry{}, err
	}
	return s.Store.FinishActiveTimer(ctx, companyID, userID, s.entryFromTimer(timer, s.Clock.Now()))
}

// Switch closes the running session and opens a new one in a single
// transaction; the old entry ends exactly when the new timer starts so
// no gap is recorded. Switching while Idle is rejected, not treated as
// an implicit start.
func (s *Service) Switch(ctx context.Context, companyID, userID string, input StartInput) (SwitchResult, error) {
	timer, err := s.Store.GetActiveTimer(ctx, companyID, userID)
	if err != nil {
		return SwitchResult{}, err
	}

	entryType := input.EntryType
	if entryType == "" {
		entryType = EntryWork
	}
	if !validEntryType(entryType) {
		return SwitchResult{}, fmt.Errorf("%w: unknown entry type %q", ErrInvalidEntry, entryType)
	}

	now := s.Clock.Now()
	next := ActiveTimer{
		CompanyID:    companyID,
		UserID:       userID,
		StartedAt:    now,
		EntryType:    entryType,
		ProjectID:    input.ProjectID,
		IsInOffice:   input.IsInOffice,
		LocationMeta: input.LocationMeta,
	}

	entry, saved, err := s.Store.ReplaceActiveTimer(ctx, companyID, userID, s.entryFromTimer(timer, now), next)
	if err != nil {
		return SwitchResult{}, err
	}
	return SwitchResult{Entry: entry, Timer: saved}, nil
}

// Cancel discards the running timer without producing an entry.
func (s *Service) Cancel(ctx context.Context, companyID, userID string) error {
	return s.Store.DeleteActiveTimer(ctx, companyID, userID)
}

// Active returns the running timer or nil; it never mutates state.
func (s *Service) Active(ctx context.Context, companyID, userID string) (*ActiveTimer, error) {
	timer, err := s.Store.GetActiveTimer(ctx, companyID, userID)
	if errors.Is(err, ErrNoActiveTimer) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &timer, nil
}

func (s *Service) entryFromTimer(timer ActiveTimer, end time.Time) TimeEntry {
	return TimeEntry{
		CompanyID:       timer.CompanyID,
		UserID:          timer.UserID,
		StartTime:       timer.StartedAt,
		EndTime:         end,
		DurationMinutes: durationMinutes(timer.StartedAt, end),
		EntryType:       timer.EntryType,
		ProjectID:       timer.ProjectID,
		IsInOffice:      timer.IsInOffice,
	}
}

// CreateEntry is the direct path for logging a finished span without
// going through the timer.
func (s *Service) CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if err := validateEntry(entry); err != nil {
		return TimeEntry{}, err
	}
	entry.DurationMinutes = durationMinutes(entry.StartTime, entry.EndTime)
	return s.Store.InsertEntry(ctx, entry)
}

// EditEntry is the explicit mutation path for otherwise immutable
// entries.
func (s *Service) EditEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if err := validateEntry(entry); err != nil {
		return TimeEntry{}, err
	}
	entry.DurationMinutes = durationMinutes(entry.StartTime, entry.EndTime)
	if err := s.Store.UpdateEntry(ctx, entry); err != nil {
		return TimeEntry{}, err
	}
	return entry, nil
}

func (s *Service) DeleteEntry(ctx context.Context, companyID, userID, entryID string) error {
	return s.Store.DeleteEntry(ctx, companyID, userID, entryID)
}

func (s *Service) ListEntries(ctx context.Context, companyID, userID string, from, to time.Time) ([]TimeEntry, error) {
	return s.Store.ListEntries(ctx, companyID, userID, from, to)
}

func validateEntry(entry TimeEntry) error {
	if !validEntryType(entry.EntryType) {
		return fmt.Errorf("%w: unknown entry type %q", ErrInvalidEntry, entry.EntryType)
	}
	if !entry.EndTime.After(entry.StartTime) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidEntry)
	}
	return nil
}

func durationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

func validEntryType(t string) bool {
	for _, candidate := range EntryTypes {
		if t == candidate {
			return true
		}
	}
	return false
}
