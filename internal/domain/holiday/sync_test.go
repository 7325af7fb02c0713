package holiday

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSyncStore struct {
	StoreAPI
	upserts []Holiday
	failOn  string
}

func (f *fakeSyncStore) UpsertNational(_ context.Context, h Holiday) error {
	if h.Name == f.failOn {
		return errors.New("duplicate key")
	}
	f.upserts = append(f.upserts, h)
	return nil
}

type fakeProvider struct {
	records []ProviderHoliday
	err     error
}

func (f fakeProvider) FetchYear(context.Context, string, int) ([]ProviderHoliday, error) {
	return f.records, f.err
}

func TestSyncYearSkipsFailedRecords(t *testing.T) {
	region := "CAT"
	store := &fakeSyncStore{failOn: "Broken"}
	svc := NewService(store, nil)

	provider := fakeProvider{records: []ProviderHoliday{
		{Date: date(2024, time.January, 1), Name: "New Year"},
		{Date: date(2024, time.January, 6), Name: "Broken"},
		{Date: date(2024, time.September, 11), Name: "Regional Day", RegionCode: &region},
	}}

	result, err := svc.SyncYear(context.Background(), provider, "CAT", 2024)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Fatalf("expected 2 imported / 1 skipped, got %+v", result)
	}
	if store.upserts[1].Scope != ScopeRegional {
		t.Fatalf("expected regional scope for region-bound record, got %s", store.upserts[1].Scope)
	}
	if store.upserts[0].Scope != ScopeNational {
		t.Fatalf("expected national scope, got %s", store.upserts[0].Scope)
	}
}

func TestSyncYearFailsWhenProviderFails(t *testing.T) {
	svc := NewService(&fakeSyncStore{}, nil)
	_, err := svc.SyncYear(context.Background(), fakeProvider{err: errors.New("api down")}, "CAT", 2024)
	if err == nil {
		t.Fatal("expected provider failure to propagate")
	}
}
