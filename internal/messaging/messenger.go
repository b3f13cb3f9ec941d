package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/lotesmx/leadbot/internal/models"
)

// Defaults for the Graph API client.
const (
	// DefaultGraphBaseURL is the Graph API endpoint messages are posted to.
	DefaultGraphBaseURL = "https://graph.facebook.com/v19.0"
	// DefaultSendTimeout bounds a single send call.
	DefaultSendTimeout = 10 * time.Second
)

// Opts holds configuration options for the Graph API messenger service.
type Opts struct {
	PageToken string
	BaseURL   string
	Client    *http.Client
}

// Option defines a configuration option for the Graph API messenger service.
type Option func(*Opts)

// WithPageToken sets the page access token used to authenticate sends.
func WithPageToken(token string) Option {
	return func(o *Opts) { o.PageToken = token }
}

// WithBaseURL overrides the Graph API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(o *Opts) { o.BaseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.Client = c }
}

// MessengerService implements Service against the Graph API send endpoint.
type MessengerService struct {
	pageToken string
	baseURL   string
	client    *http.Client

	mu      sync.RWMutex
	stopped bool
}

// NewMessengerService creates a Graph API backed messaging service. The page
// token falls back to the PAGE_TOKEN environment variable when not provided
// via options.
func NewMessengerService(opts ...Option) (*MessengerService, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.PageToken == "" {
		cfg.PageToken = os.Getenv("PAGE_TOKEN")
	}
	if cfg.PageToken == "" {
		return nil, fmt.Errorf("page access token not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGraphBaseURL
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: DefaultSendTimeout}
	}

	slog.Debug("MessengerService created", "base_url", cfg.BaseURL, "token_set", cfg.PageToken != "")
	return &MessengerService{pageToken: cfg.PageToken, baseURL: cfg.BaseURL, client: cfg.Client}, nil
}

// Wire shapes for the send endpoint.

type recipientRef struct {
	ID string `json:"id"`
}

type textEnvelope struct {
	Recipient recipientRef `json:"recipient"`
	Message   textBody     `json:"message"`
}

type textBody struct {
	Text string `json:"text"`
}

type buttonEnvelope struct {
	Recipient recipientRef `json:"recipient"`
	Message   buttonBody   `json:"message"`
}

type buttonBody struct {
	Attachment buttonAttachment `json:"attachment"`
}

type buttonAttachment struct {
	Type    string        `json:"type"`
	Payload buttonPayload `json:"payload"`
}

type buttonPayload struct {
	TemplateType string          `json:"template_type"`
	Text         string          `json:"text"`
	Buttons      []models.Button `json:"buttons"`
}

// SendText delivers a plain text message to the visitor.
func (s *MessengerService) SendText(ctx context.Context, userID, text string) error {
	if userID == "" {
		return models.ErrEmptyUserID
	}
	env := textEnvelope{Recipient: recipientRef{ID: userID}, Message: textBody{Text: text}}
	if err := s.post(ctx, env); err != nil {
		slog.Error("MessengerService SendText failed", "error", err, "user_id", userID)
		return err
	}
	slog.Debug("MessengerService SendText succeeded", "user_id", userID, "length", len(text))
	return nil
}

// SendButtons delivers a button template message to the visitor.
func (s *MessengerService) SendButtons(ctx context.Context, userID, text string, buttons []models.Button) error {
	if userID == "" {
		return models.ErrEmptyUserID
	}
	if err := models.ValidateButtons(buttons); err != nil {
		slog.Error("MessengerService SendButtons validation failed", "error", err, "user_id", userID)
		return err
	}
	env := buttonEnvelope{
		Recipient: recipientRef{ID: userID},
		Message: buttonBody{Attachment: buttonAttachment{
			Type:    "template",
			Payload: buttonPayload{TemplateType: "button", Text: text, Buttons: buttons},
		}},
	}
	if err := s.post(ctx, env); err != nil {
		slog.Error("MessengerService SendButtons failed", "error", err, "user_id", userID)
		return err
	}
	slog.Debug("MessengerService SendButtons succeeded", "user_id", userID, "buttons", len(buttons))
	return nil
}

// Stop marks the service stopped; in-flight sends finish on their own.
func (s *MessengerService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

// post serializes the envelope and delivers it to the send endpoint.
func (s *MessengerService) post(ctx context.Context, envelope any) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal send envelope: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", s.baseURL, url.QueryEscape(s.pageToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send endpoint returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
