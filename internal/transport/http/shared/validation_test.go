package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "required")
	v.Enum("type", "MAYBE", []string{"VACATION", "SICKNESS"}, "unknown type")
	v.IntRange("month", 12, 0, 11, "out of range")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted: %v", issues)
		}
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	from, _ := v.Date("from", "2024-04-10")
	to, _ := v.Date("to", "2024-04-01")
	v.DateOrder("from", from, "to", to)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected both fields flagged, got %v", v.Issues())
	}
}

func TestValidatorRejectWritesEnvelope(t *testing.T) {
	v := NewValidator()
	v.Add("field", "bad")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected reject to fire")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success || body.Error.Code != "validation_error" || body.RequestID != "req-1" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	clean := NewValidator()
	if clean.Reject(httptest.NewRecorder(), "req-2") {
		t.Fatal("expected no rejection without issues")
	}
}
