package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Sarah Johnson","email":"sarah@example.com","phone":"555-0101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.Name != "Sarah Johnson" {
		t.Errorf("expected 'Sarah Johnson', got %s", p.Name)
	}
}

func TestHandler_CreatePatient_MissingEmail(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Sarah Johnson","phone":"555-0101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	if err == nil {
		t.Fatal("expected error for missing email")
	}
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}

func TestHandler_GetPatient(t *testing.T) {
	h, e := newTestHandler()

	p := &Patient{Name: "Sarah", Email: "sarah@example.com", Phone: "555-0101"}
	h.svc.CreatePatient(nil, p)
	h.svc.CreateChild(nil, &Child{
		PatientID:           p.ID,
		Name:                "Emma",
		DateOfBirth:         NewDate(2020, time.January, 1),
		MedicalRecordNumber: "MRN-1",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got PatientWithChildren
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got.Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(got.Children))
	}
}

func TestHandler_GetPatient_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPatient(c)
	if apperr.Status(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apperr.Status(err))
	}
}

func TestHandler_CreateChild(t *testing.T) {
	h, e := newTestHandler()

	p := &Patient{Name: "Sarah", Email: "sarah@example.com", Phone: "555-0101"}
	h.svc.CreatePatient(nil, p)

	body := `{"patientId":"` + p.ID.String() + `","name":"Emma","dateOfBirth":"2019-03-14","medicalRecordNumber":"MRN-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/children", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateChild(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var got Child
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.DateOfBirth.Format("2006-01-02") != "2019-03-14" {
		t.Errorf("expected dateOfBirth 2019-03-14, got %v", got.DateOfBirth)
	}
	if !strings.Contains(rec.Body.String(), `"dateOfBirth":"2019-03-14"`) {
		t.Errorf("expected date-only dateOfBirth on the wire, got %s", rec.Body.String())
	}
}

func TestHandler_CreateChild_MalformedDate(t *testing.T) {
	h, e := newTestHandler()

	p := &Patient{Name: "Sarah", Email: "sarah@example.com", Phone: "555-0101"}
	h.svc.CreatePatient(nil, p)

	body := `{"patientId":"` + p.ID.String() + `","name":"Emma","dateOfBirth":"14/03/2019","medicalRecordNumber":"MRN-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/children", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateChild(c)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}
