package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNagerProviderFetchYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/PublicHolidays/2024/DE" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
      {"date":"2024-01-01","localName":"Neujahr","name":"New Year's Day","global":true},
      {"date":"2024-01-06","localName":"Heilige Drei Könige","name":"Epiphany","global":false,"counties":["DE-BY","DE-BW"]},
      {"date":"2024-03-08","localName":"Frauentag","name":"Women's Day","global":false,"counties":["DE-BE"]},
      {"date":"bogus","localName":"x","name":"x","global":true}
    ]`))
	}))
	defer srv.Close()

	provider := NewNagerProvider()
	provider.BaseURL = srv.URL

	holidays, err := provider.FetchYear(context.Background(), "DE-BY", 2024)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	// The nationwide day, the matching county day; the other county's
	// day and the malformed record are dropped.
	if len(holidays) != 2 {
		t.Fatalf("expected 2 holidays, got %d: %+v", len(holidays), holidays)
	}

	if holidays[0].RegionCode != nil {
		t.Fatalf("expected nationwide first record, got region %v", *holidays[0].RegionCode)
	}
	if holidays[0].LocalName == nil || *holidays[0].LocalName != "Neujahr" {
		t.Fatalf("expected local name kept, got %+v", holidays[0])
	}

	if holidays[1].RegionCode == nil || *holidays[1].RegionCode != "DE-BY" {
		t.Fatalf("expected county record scoped to DE-BY, got %+v", holidays[1])
	}
}

func TestNagerProviderCountryWideRegionSkipsCountyDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
      {"date":"2024-01-06","localName":"Epiphany","name":"Epiphany","global":false,"counties":["DE-BY"]}
    ]`))
	}))
	defer srv.Close()

	provider := NewNagerProvider()
	provider.BaseURL = srv.URL

	holidays, err := provider.FetchYear(context.Background(), "DE", 2024)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(holidays) != 0 {
		t.Fatalf("expected county-only day dropped without a subdivision, got %+v", holidays)
	}
}

func TestNagerProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider := NewNagerProvider()
	provider.BaseURL = srv.URL

	if _, err := provider.FetchYear(context.Background(), "DE", 2024); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
