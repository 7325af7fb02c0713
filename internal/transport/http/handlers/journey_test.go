package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"timeclock/internal/app/server"
	"timeclock/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		SeedCompanyName:    "Test Company",
		SeedCompanyRegion:  "DE",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		ReportsDir:         os.TempDir(),
	}
}

func TestTimerAndCalendarJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// A previous run against the same database may have left a timer.
	_ = doRaw(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/cancel", token, nil)

	// Idle: no timer.
	var activeResp struct {
		Running bool `json:"running"`
	}
	doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/tracking/timer", token, nil, &activeResp)
	if activeResp.Running {
		t.Fatal("expected no running timer for a fresh user")
	}

	// Start.
	var timer struct {
		ID        string `json:"id"`
		EntryType string `json:"entryType"`
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/start", token, map[string]any{"isInOffice": true}, &timer)
	if timer.EntryType != "WORK" {
		t.Fatalf("expected default WORK timer, got %s", timer.EntryType)
	}

	// Second start conflicts.
	status := doRaw(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/start", token, map[string]any{})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for double start, got %d", status)
	}

	// Switch to a pause keeps exactly one timer and yields one entry.
	var switched struct {
		Entry struct {
			EntryType string `json:"entryType"`
		} `json:"entry"`
		Timer struct {
			ID        string `json:"id"`
			EntryType string `json:"entryType"`
		} `json:"timer"`
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/switch", token, map[string]any{"entryType": "PAUSE_LUNCH"}, &switched)
	if switched.Entry.EntryType != "WORK" {
		t.Fatalf("expected switch to close the WORK session, got %s", switched.Entry.EntryType)
	}
	if switched.Timer.EntryType != "PAUSE_LUNCH" {
		t.Fatalf("expected new PAUSE_LUNCH timer, got %s", switched.Timer.EntryType)
	}

	// Stop.
	var entry struct {
		ID        string `json:"id"`
		EntryType string `json:"entryType"`
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/stop", token, nil, &entry)
	if entry.EntryType != "PAUSE_LUNCH" {
		t.Fatalf("expected stopped entry to be the pause, got %s", entry.EntryType)
	}

	// Stop while idle conflicts.
	status = doRaw(t, client, http.MethodPost, ts.URL+"/api/v1/tracking/timer/stop", token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for stop while idle, got %d", status)
	}

	// The calendar month view covers today and carries a summary.
	now := time.Now().UTC()
	var calendarResp struct {
		Days    []json.RawMessage `json:"days"`
		Summary struct {
			WorkingDays int `json:"workingDays"`
		} `json:"summary"`
	}
	url := fmt.Sprintf("%s/api/v1/calendar/month?year=%d&month=%d", ts.URL, now.Year(), int(now.Month())-1)
	doJSON(t, client, http.MethodGet, url, token, nil, &calendarResp)
	if len(calendarResp.Days) < 28 || len(calendarResp.Days)%7 != 0 {
		t.Fatalf("expected full padded weeks, got %d days", len(calendarResp.Days))
	}
}

func TestAbsenceReviewJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	start := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 1, 2).Format("2006-01-02")

	var created struct {
		ID string `json:"id"`
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/absences", token, map[string]any{
		"startDate": start,
		"endDate":   end,
		"type":      "VACATION",
		"reason":    "trip",
	}, &created)
	if created.ID == "" {
		t.Fatal("expected created absence id")
	}

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/absences/"+created.ID+"/approve", token, nil, nil)

	// Approving twice is an invalid transition.
	status := doRaw(t, client, http.MethodPost, ts.URL+"/api/v1/absences/"+created.ID+"/approve", token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for double approval, got %d", status)
	}

	var listed []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	url := fmt.Sprintf("%s/api/v1/absences?from=%s&to=%s", ts.URL, start, end)
	doJSON(t, client, http.MethodGet, url, token, nil, &listed)
	found := false
	for _, a := range listed {
		if a.ID == created.ID && a.Status == "APPROVED" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected approved absence in list")
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if resp.Token == "" {
		t.Fatal("expected login token")
	}
	return resp.Token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload, out any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		t.Fatalf("%s %s: status %d: %s", method, url, resp.StatusCode, string(raw))
	}
	if out == nil {
		return
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, string(raw))
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v: %s", err, string(env.Data))
		}
	}
}

func doRaw(t *testing.T, client *http.Client, method, url, token string, payload any) int {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}
