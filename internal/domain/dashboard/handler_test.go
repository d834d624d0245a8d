package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/domain/triage"
)

func TestHandler_GetStats(t *testing.T) {
	src := &stubSources{}
	p := src.addPatient("Sarah")
	src.addInteraction(p.ID, nil, nil)
	h := NewHandler(newTestService(src))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetStats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	for _, key := range []string{"reviewsPending", "escalations", "activePatients", "avgResponseTime", "agreesCount", "disagreesCount"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing field %s in stats response", key)
		}
	}
	if body["avgResponseTime"] != "N/A" {
		t.Errorf("expected N/A, got %v", body["avgResponseTime"])
	}
}

func TestHandler_GetBadges(t *testing.T) {
	src := &stubSources{unread: 2}
	h := NewHandler(newTestService(src))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/stats/badges", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetBadges(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	for _, key := range []string{"reviewsPending", "escalationsActive", "messagesUnread"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing field %s in badges response", key)
		}
	}
	if body["messagesUnread"] != float64(2) {
		t.Errorf("expected 2 unread, got %v", body["messagesUnread"])
	}
}

func TestHandler_GetAnalytics(t *testing.T) {
	src := &stubSources{}
	p := src.addPatient("Sarah")
	src.addInteraction(p.ID, []string{triage.DecisionAgree}, []time.Duration{10 * time.Minute})
	h := NewHandler(newTestService(src))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetAnalytics(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a Analytics
	json.Unmarshal(rec.Body.Bytes(), &a)
	if len(a.ReviewOutcomes) != 4 {
		t.Errorf("expected 4 outcome buckets, got %d", len(a.ReviewOutcomes))
	}
	if len(a.TimeMetrics) != 3 {
		t.Errorf("expected 3 time metrics, got %d", len(a.TimeMetrics))
	}
	if a.Stats.ActivePatients != 1 {
		t.Errorf("expected 1 patient in embedded stats, got %d", a.Stats.ActivePatients)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	src := &stubSources{}
	p := src.addPatient("Sarah")
	src.addInteraction(p.ID, nil, nil)
	h := NewHandler(newTestService(src))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*PatientSummary
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 patient, got %d", len(items))
	}
	if items[0].Status != PatientStatusReviewPending {
		t.Errorf("expected review_pending, got %s", items[0].Status)
	}
	if items[0].InteractionCount != 1 {
		t.Errorf("expected interactionCount 1, got %d", items[0].InteractionCount)
	}
}
