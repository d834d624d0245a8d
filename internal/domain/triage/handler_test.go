package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
	"github.com/claracare/api/internal/platform/auth"
)

func TestHandler_CreateInteraction(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	body := `{"childId":"` + f.child.ID.String() + `","patientId":"` + f.patient.ID.String() +
		`","parentConcern":"Fever of 102F","aiResponse":"Monitor and hydrate","urgency":"moderate"}`
	req := httptest.NewRequest(http.MethodPost, "/api/interactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateInteraction(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateInteraction_MissingConcern(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	body := `{"childId":"` + f.child.ID.String() + `","patientId":"` + f.patient.ID.String() +
		`","aiResponse":"Monitor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/interactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateInteraction(c)
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}

func TestHandler_ListInteractions(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()
	f.newInteraction(t)

	req := httptest.NewRequest(http.MethodGet, "/api/interactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInteractions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*InteractionWithDetails
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(items))
	}
	if items[0].Child == nil || items[0].Patient == nil {
		t.Error("expected child and patient attached")
	}
}

func TestHandler_ListInteractions_Empty(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/interactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListInteractions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %s", got)
	}
}

func TestHandler_ListRecentInteractions_LimitParam(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()
	for i := 0; i < 4; i++ {
		f.newInteraction(t)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/interactions/recent?limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListRecentInteractions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*InteractionWithDetails
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 2 {
		t.Errorf("expected 2 interactions, got %d", len(items))
	}
}

func TestHandler_ListRecentInteractions_BadLimit(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/interactions/recent?limit=zero", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListRecentInteractions(c)
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}

func TestHandler_CreateReview_ProviderFromContext(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()
	in := f.newInteraction(t)

	body := `{"interactionId":"` + in.ID.String() + `","reviewDecision":"agree"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.ProviderNameKey, "Dr. Cuddy")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateReview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var rv Review
	json.Unmarshal(rec.Body.Bytes(), &rv)
	if rv.ProviderName != "Dr. Cuddy" {
		t.Errorf("expected provider name from auth context, got %q", rv.ProviderName)
	}
}

func TestHandler_CreateReview_BodyProviderIgnored(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()
	in := f.newInteraction(t)

	body := `{"interactionId":"` + in.ID.String() + `","providerName":"Dr. Wilson","reviewDecision":"disagree"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.ProviderNameKey, "Dr. Cuddy")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateReview(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rv Review
	json.Unmarshal(rec.Body.Bytes(), &rv)
	if rv.ProviderName != "Dr. Cuddy" {
		t.Errorf("expected authenticated provider to win over body, got %q", rv.ProviderName)
	}
}

func TestHandler_ListReviews(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.svc)
	e := echo.New()
	in := f.newInteraction(t)
	f.svc.CreateReview(context.Background(), &Review{
		InteractionID: in.ID, ProviderName: "Dr. House", ReviewDecision: DecisionAgree,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(in.ID.String())

	if err := h.ListReviews(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*Review
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Errorf("expected 1 review, got %d", len(items))
	}
}
