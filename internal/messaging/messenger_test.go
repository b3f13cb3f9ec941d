package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lotesmx/leadbot/internal/models"
)

// capturedRequest holds one request seen by the fake send endpoint.
type capturedRequest struct {
	Path  string
	Query string
	Body  map[string]any
}

func newFakeEndpoint(t *testing.T, status int) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}
		captured = append(captured, capturedRequest{Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newTestService(t *testing.T, baseURL string) *MessengerService {
	t.Helper()
	svc, err := NewMessengerService(WithPageToken("token-123"), WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("NewMessengerService() error = %v", err)
	}
	return svc
}

func TestNewMessengerServiceRequiresToken(t *testing.T) {
	t.Setenv("PAGE_TOKEN", "")
	if _, err := NewMessengerService(); err == nil {
		t.Error("expected an error when no page token is configured")
	}
}

func TestSendTextPostsEnvelope(t *testing.T) {
	srv, captured := newFakeEndpoint(t, http.StatusOK)
	svc := newTestService(t, srv.URL)

	if err := svc.SendText(context.Background(), "user1", "hola"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}

	if len(*captured) != 1 {
		t.Fatalf("requests = %d, want 1", len(*captured))
	}
	req := (*captured)[0]
	if req.Path != "/me/messages" {
		t.Errorf("path = %q, want /me/messages", req.Path)
	}
	if req.Query != "access_token=token-123" {
		t.Errorf("query = %q, want the access token", req.Query)
	}
	recipient := req.Body["recipient"].(map[string]any)
	if recipient["id"] != "user1" {
		t.Errorf("recipient id = %v, want user1", recipient["id"])
	}
	message := req.Body["message"].(map[string]any)
	if message["text"] != "hola" {
		t.Errorf("text = %v, want hola", message["text"])
	}
}

func TestSendButtonsPostsTemplate(t *testing.T) {
	srv, captured := newFakeEndpoint(t, http.StatusOK)
	svc := newTestService(t, srv.URL)

	buttons := []models.Button{
		models.PostbackButton("✅ Sí", "YES"),
		models.PostbackButton("❌ No", "NO"),
	}
	if err := svc.SendButtons(context.Background(), "user1", "¿Confirmas?", buttons); err != nil {
		t.Fatalf("SendButtons() error = %v", err)
	}

	if len(*captured) != 1 {
		t.Fatalf("requests = %d, want 1", len(*captured))
	}
	message := (*captured)[0].Body["message"].(map[string]any)
	attachment := message["attachment"].(map[string]any)
	if attachment["type"] != "template" {
		t.Errorf("attachment type = %v, want template", attachment["type"])
	}
	payload := attachment["payload"].(map[string]any)
	if payload["template_type"] != "button" {
		t.Errorf("template_type = %v, want button", payload["template_type"])
	}
	if got := len(payload["buttons"].([]any)); got != 2 {
		t.Errorf("buttons = %d, want 2", got)
	}
}

func TestSendButtonsRejectsInvalidSet(t *testing.T) {
	srv, captured := newFakeEndpoint(t, http.StatusOK)
	svc := newTestService(t, srv.URL)

	one := []models.Button{models.PostbackButton("✅ Sí", "YES")}
	if err := svc.SendButtons(context.Background(), "user1", "¿Confirmas?", one); !errors.Is(err, models.ErrTooFewButtons) {
		t.Errorf("SendButtons() = %v, want %v", err, models.ErrTooFewButtons)
	}
	if len(*captured) != 0 {
		t.Errorf("requests = %d, want 0; validation failures must not reach the endpoint", len(*captured))
	}
}

func TestSendTextReportsEndpointError(t *testing.T) {
	srv, _ := newFakeEndpoint(t, http.StatusBadRequest)
	svc := newTestService(t, srv.URL)

	if err := svc.SendText(context.Background(), "user1", "hola"); err == nil {
		t.Error("expected an error on a non-2xx response")
	}
}

func TestSendAfterStopFails(t *testing.T) {
	srv, captured := newFakeEndpoint(t, http.StatusOK)
	svc := newTestService(t, srv.URL)

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := svc.SendText(context.Background(), "user1", "hola"); !errors.Is(err, ErrServiceStopped) {
		t.Errorf("SendText() = %v, want %v", err, ErrServiceStopped)
	}
	if len(*captured) != 0 {
		t.Errorf("requests = %d, want 0", len(*captured))
	}
}

func TestSendTextRejectsEmptyUserID(t *testing.T) {
	srv, _ := newFakeEndpoint(t, http.StatusOK)
	svc := newTestService(t, srv.URL)

	if err := svc.SendText(context.Background(), "", "hola"); !errors.Is(err, models.ErrEmptyUserID) {
		t.Errorf("SendText() = %v, want %v", err, models.ErrEmptyUserID)
	}
}
