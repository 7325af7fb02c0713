package absence

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	StoreAPI
	byID   map[string]Absence
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]Absence)}
}

func (f *fakeStore) Insert(_ context.Context, a Absence) (string, error) {
	f.nextID++
	a.ID = time.Now().Format("20060102") + "-" + string(rune('a'+f.nextID))
	f.byID[a.ID] = a
	return a.ID, nil
}

func (f *fakeStore) Get(_ context.Context, _, absenceID string) (Absence, error) {
	a, ok := f.byID[absenceID]
	if !ok {
		return Absence{}, ErrAbsenceNotFound
	}
	return a, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, absenceID, status string) error {
	a, ok := f.byID[absenceID]
	if !ok {
		return ErrAbsenceNotFound
	}
	a.Status = status
	f.byID[absenceID] = a
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), Absence{
		CompanyID: "c1", UserID: "u1", Type: TypeVacation,
		StartDate: day(2024, time.June, 10), EndDate: day(2024, time.June, 5),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestApproveOnlyFromPending(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, Absence{
		CompanyID: "c1", UserID: "u1", Type: TypeVacation,
		StartDate: day(2024, time.June, 5), EndDate: day(2024, time.June, 10),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Approve(ctx, "c1", id); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if store.byID[id].Status != StatusApproved {
		t.Fatalf("expected APPROVED, got %s", store.byID[id].Status)
	}

	if err := svc.Reject(ctx, "c1", id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on reject after approve, got %v", err)
	}
}

func TestCancelFromApproved(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	id, _ := svc.Create(ctx, Absence{
		CompanyID: "c1", UserID: "u1", Type: TypeSickness,
		StartDate: day(2024, time.June, 5), EndDate: day(2024, time.June, 6),
	})
	if err := svc.Approve(ctx, "c1", id); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := svc.Cancel(ctx, "c1", id); err != nil {
		t.Fatalf("cancel from approved failed: %v", err)
	}
	if err := svc.Cancel(ctx, "c1", id); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double cancel, got %v", err)
	}
}

func TestCoversIsInclusiveOnBothEnds(t *testing.T) {
	a := Absence{StartDate: day(2024, time.June, 5), EndDate: day(2024, time.June, 10)}
	if !a.Covers(day(2024, time.June, 5)) || !a.Covers(day(2024, time.June, 10)) {
		t.Fatal("bounds must be inclusive")
	}
	if a.Covers(day(2024, time.June, 4)) || a.Covers(day(2024, time.June, 11)) {
		t.Fatal("dates outside the span must not be covered")
	}
}
