package apperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("name is required"), http.StatusBadRequest},
		{NotFound("patient not found"), http.StatusNotFound},
		{Integrity("missing child for interaction"), http.StatusInternalServerError},
		{Persistence("failed to fetch patients", fmt.Errorf("conn refused")), http.StatusInternalServerError},
		{fmt.Errorf("plain error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestClientMessage_NeverLeaksUnclassified(t *testing.T) {
	err := fmt.Errorf("pq: relation escalations does not exist")
	if got := ClientMessage(err); got != "internal server error" {
		t.Errorf("expected generic message, got %q", got)
	}
}

func TestClientMessage_ServerFaultKindsStayGeneric(t *testing.T) {
	cases := []error{
		Integrity("interaction 4f1c references missing child 9a2b"),
		Persistence("failed to fetch patients", fmt.Errorf("conn refused")),
	}
	for _, err := range cases {
		if got := ClientMessage(err); got != "internal server error" {
			t.Errorf("ClientMessage(%v) = %q, want generic message", err, got)
		}
	}
}

func TestClientMessage_WrappedError(t *testing.T) {
	inner := NotFound("escalation not found")
	wrapped := fmt.Errorf("update: %w", inner)
	if got := ClientMessage(wrapped); got != "escalation not found" {
		t.Errorf("expected wrapped message to surface, got %q", got)
	}
	if Status(wrapped) != http.StatusNotFound {
		t.Errorf("expected 404 through wrapping, got %d", Status(wrapped))
	}
}

func TestHTTPErrorHandler_JSONShape(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(Validation("email is required"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "email is required" {
		t.Errorf("expected error message, got %q", body["error"])
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "invalid token" {
		t.Errorf("expected 'invalid token', got %q", body["error"])
	}
}
