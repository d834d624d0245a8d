package escalation

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

func TestHandler_ListEscalations(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	esc := f.newEscalation(t)
	f.svc.CreateMessage(context.Background(), &Message{
		EscalationID: esc.ID, SenderID: "patient-1", SenderType: SenderParent, Content: "hello",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/escalations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListEscalations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*EscalationWithDetails
	json.Unmarshal(rec.Body.Bytes(), &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 escalation, got %d", len(items))
	}
	if len(items[0].Messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(items[0].Messages))
	}
}

func TestHandler_UpdateEscalation(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	esc := f.newEscalation(t)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"phone_call"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(esc.ID.String())

	if err := h.UpdateEscalation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Escalation
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != StatusPhoneCall {
		t.Errorf("expected phone_call, got %s", got.Status)
	}
}

func TestHandler_UpdateEscalation_EmptyBody(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	esc := f.newEscalation(t)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(esc.ID.String())

	if err := h.UpdateEscalation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Escalation
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != StatusPending {
		t.Errorf("expected current state back, got %s", got.Status)
	}
}

func TestHandler_UpdateEscalation_NotFound(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"texting"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("0b86e21e-3f86-4e4b-9dc0-2ccc0e0b073a")

	err := h.UpdateEscalation(c)
	if apperr.Status(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apperr.Status(err))
	}
}

func TestHandler_CreateMessage_SenderFromContext(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	esc := f.newEscalation(t)

	body := `{"escalationId":"` + esc.ID.String() + `","senderType":"provider","content":"Calling you now"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.ProviderIDKey, "prov-42")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateMessage(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var m Message
	json.Unmarshal(rec.Body.Bytes(), &m)
	if m.SenderID != "prov-42" {
		t.Errorf("expected sender id from auth context, got %q", m.SenderID)
	}
}

func TestHandler_MarkMessageRead(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	esc := f.newEscalation(t)
	m := &Message{EscalationID: esc.ID, SenderID: "patient-1", SenderType: SenderParent, Content: "hi"}
	f.svc.CreateMessage(context.Background(), m)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	if err := h.MarkMessageRead(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	count, _ := f.svc.CountUnreadParentMessages(context.Background())
	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}
