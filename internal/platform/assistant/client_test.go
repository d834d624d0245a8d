package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/claracare/api/internal/platform/apperr"
)

func TestReply_Upstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message != "my child has a fever" {
			t.Errorf("unexpected upstream message: %q", req.Message)
		}
		json.NewEncoder(w).Encode(chatResponse{Reply: "model reply"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	reply, err := client.Reply(context.Background(), "my child has a fever")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "model reply" {
		t.Errorf("expected upstream reply, got %q", reply)
	}
}

func TestReply_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.Reply(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestReply_CannedFallback(t *testing.T) {
	client := NewClient("", 5*time.Second)

	reply, err := client.Reply(context.Background(), "She has a fever of 101")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "fever") {
		t.Errorf("expected fever guidance, got %q", reply)
	}

	reply, _ = client.Reply(context.Background(), "something unrelated")
	if reply != defaultCannedReply {
		t.Errorf("expected default reply, got %q", reply)
	}
}

func TestHandler_Chat(t *testing.T) {
	h := NewHandler(NewClient("", time.Second))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/clara/chat", strings.NewReader(`{"message":"rash on arm"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Chat(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Reply == "" {
		t.Error("expected non-empty reply")
	}
}

func TestHandler_Chat_EmptyMessage(t *testing.T) {
	h := NewHandler(NewClient("", time.Second))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/clara/chat", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Chat(c)
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}
