package absence

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Create registers a pending absence request. Overlaps with existing
// absences of the same user are allowed at creation time; consumers
// must tolerate them.
func (s *Service) Create(ctx context.Context, a Absence) (string, error) {
	if a.EndDate.Before(a.StartDate) {
		return "", ErrInvalidRange
	}
	if !validType(a.Type) {
		return "", fmt.Errorf("unknown absence type %q", a.Type)
	}
	a.Status = StatusPending
	return s.Store.Insert(ctx, a)
}

func (s *Service) Approve(ctx context.Context, companyID, absenceID string) error {
	return s.transition(ctx, companyID, absenceID, StatusApproved, StatusPending)
}

func (s *Service) Reject(ctx context.Context, companyID, absenceID string) error {
	return s.transition(ctx, companyID, absenceID, StatusRejected, StatusPending)
}

// Cancel is allowed from both pending and approved states: an employee
// may withdraw a request or call off booked time.
func (s *Service) Cancel(ctx context.Context, companyID, absenceID string) error {
	return s.transition(ctx, companyID, absenceID, StatusCancelled, StatusPending, StatusApproved)
}

func (s *Service) transition(ctx context.Context, companyID, absenceID, target string, allowedFrom ...string) error {
	current, err := s.Store.Get(ctx, companyID, absenceID)
	if err != nil {
		return err
	}
	allowed := false
	for _, from := range allowedFrom {
		if current.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, current.Status, target)
	}
	return s.Store.UpdateStatus(ctx, absenceID, target)
}

// ApprovedInRange is the oracle consumed by calendar aggregation.
func (s *Service) ApprovedInRange(ctx context.Context, companyID, userID string, from, to time.Time) ([]Absence, error) {
	return s.Store.ListApprovedInRange(ctx, companyID, []string{userID}, from, to)
}

// ApprovedInRangeBatch resolves approved absences for many users at
// once, for team-level views.
func (s *Service) ApprovedInRangeBatch(ctx context.Context, companyID string, userIDs []string, from, to time.Time) ([]Absence, error) {
	return s.Store.ListApprovedInRange(ctx, companyID, userIDs, from, to)
}

func (s *Service) ListForUser(ctx context.Context, companyID, userID string, from, to time.Time) ([]Absence, error) {
	return s.Store.ListForUser(ctx, companyID, userID, from, to)
}

func validType(t string) bool {
	for _, candidate := range Types {
		if t == candidate {
			return true
		}
	}
	return false
}
