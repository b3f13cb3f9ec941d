// Package messaging provides the outbound message transport for LeadBot.
//
// It defines a pluggable delivery abstraction over the chat channel and a
// Graph API implementation of it.
package messaging

import (
	"context"
	"errors"

	"github.com/lotesmx/leadbot/internal/models"
)

// ErrServiceStopped is returned when a send is attempted after Stop.
var ErrServiceStopped = errors.New("messaging service is stopped")

// Service defines a pluggable message delivery abstraction. The dialogue
// engine emits every prompt through it; failures are logged by callers and
// never retried.
type Service interface {
	// SendText delivers a plain text message to the visitor.
	SendText(ctx context.Context, userID, text string) error

	// SendButtons delivers a titled set of 2-5 selectable buttons whose
	// payloads come back as postback events.
	SendButtons(ctx context.Context, userID, text string, buttons []models.Button) error

	// Stop releases transport resources.
	Stop() error
}
