// Package session provides storage backends for per-visitor dialogue state.
//
// It defines the repository abstraction the dialogue engine mutates through,
// with an in-memory backend for single-process deployments and a Redis
// backend for shared ones.
package session

import (
	"context"

	"github.com/lotesmx/leadbot/internal/models"
)

// Store is the session repository. Sessions are created lazily on first
// access and mutated only by the dialogue engine; Reset returns a session
// to its initial values without forgetting the visitor.
type Store interface {
	// GetOrCreate returns the session for the given user identifier,
	// creating a fresh one if none exists.
	GetOrCreate(ctx context.Context, userID string) (*models.Session, error)

	// Save persists the session after the dialogue engine mutated it.
	Save(ctx context.Context, s *models.Session) error

	// Reset restores the session to all-initial values, keeping the user
	// identifier.
	Reset(ctx context.Context, userID string) error

	// Stop releases background resources (sweepers, connections).
	Stop() error
}
