// Package leads assembles completed sessions into lead records and hands
// them to the notification sink, optionally appending them to a lead log.
package leads

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lotesmx/leadbot/internal/models"
	"github.com/lotesmx/leadbot/internal/notify"
)

// Composer is the single point that reads a session as a unit and turns it
// into a lead. It never partially sends: the record is validated before any
// delivery is attempted.
type Composer struct {
	notifier notify.Notifier
	log      Store
}

// ComposerOption defines a configuration option for the Composer.
type ComposerOption func(*Composer)

// WithLeadLog enables the append-only lead log.
func WithLeadLog(store Store) ComposerOption {
	return func(c *Composer) { c.log = store }
}

// NewComposer creates a Composer delivering to the given notifier.
func NewComposer(notifier notify.Notifier, opts ...ComposerOption) *Composer {
	c := &Composer{notifier: notifier}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Emit builds the lead record from the session and preference, forwards it
// to the notification sink, and appends it to the lead log when one is
// configured. A log failure does not undo a delivered notification; it is
// logged and swallowed.
func (c *Composer) Emit(ctx context.Context, sess *models.Session, preference models.Preference, scheduleText string) (models.Lead, error) {
	lead := models.Lead{
		ID:           uuid.NewString(),
		Intent:       sess.Intent,
		Name:         sess.Name,
		Phone:        sess.Phone,
		Preference:   preference,
		ScheduleText: scheduleText,
		UserID:       sess.UserID,
		Timestamp:    time.Now(),
	}
	if err := lead.Validate(); err != nil {
		slog.Error("Composer rejected incomplete lead", "error", err, "user_id", sess.UserID)
		return models.Lead{}, fmt.Errorf("incomplete lead for %s: %w", sess.UserID, err)
	}

	if err := c.notifier.NotifyLead(ctx, lead); err != nil {
		slog.Error("Composer notification failed", "error", err, "lead_id", lead.ID, "user_id", sess.UserID)
		return lead, fmt.Errorf("notify lead %s: %w", lead.ID, err)
	}

	if c.log != nil {
		if err := c.log.AddLead(ctx, lead); err != nil {
			slog.Error("Composer lead log append failed", "error", err, "lead_id", lead.ID)
		}
	}

	slog.Info("Composer lead emitted", "lead_id", lead.ID, "intent", lead.Intent, "preference", lead.Preference)
	return lead, nil
}
