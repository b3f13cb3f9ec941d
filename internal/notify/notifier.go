// Package notify delivers completed lead records to the human operator.
//
// It defines the notification sink abstraction with SMTP mail and Twilio
// SMS implementations, plus a fan-out combining several sinks.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lotesmx/leadbot/internal/models"
)

// Notifier is the lead-notification sink. Implementations deliver a
// formatted rendering of the lead to a fixed operator destination.
// Delivery failures are logged by callers and never retried.
type Notifier interface {
	NotifyLead(ctx context.Context, lead models.Lead) error
}

// MultiNotifier fans a lead out to every configured sink. All sinks are
// attempted even when earlier ones fail; the first error is returned.
type MultiNotifier struct {
	sinks []Notifier
}

// NewMultiNotifier combines the given sinks into one notifier.
func NewMultiNotifier(sinks ...Notifier) *MultiNotifier {
	return &MultiNotifier{sinks: sinks}
}

// NotifyLead delivers the lead through every sink.
func (m *MultiNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	var firstErr error
	for _, sink := range m.sinks {
		if err := sink.NotifyLead(ctx, lead); err != nil {
			slog.Error("MultiNotifier sink failed", "error", err, "lead_id", lead.ID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// preferenceLabel renders the preference the way the operator reads it.
func preferenceLabel(p models.Preference) string {
	if p == models.PreferenceNow {
		return "ahora"
	}
	return "agendar"
}

// leadSubject builds the operator-facing subject line for a lead.
func leadSubject(lead models.Lead) string {
	return fmt.Sprintf("Nuevo lead Ucú (%s) - %s", lead.Intent, lead.Name)
}

// leadHTML renders the lead as the HTML body of the operator mail.
func leadHTML(lead models.Lead) string {
	var b strings.Builder
	b.WriteString("<h2>Nuevo lead de Messenger</h2>\n<ul>\n")
	fmt.Fprintf(&b, "  <li><b>Intent:</b> %s</li>\n", lead.Intent)
	fmt.Fprintf(&b, "  <li><b>Nombre:</b> %s</li>\n", lead.Name)
	fmt.Fprintf(&b, "  <li><b>WhatsApp:</b> %s</li>\n", lead.Phone)
	fmt.Fprintf(&b, "  <li><b>Preferencia:</b> %s</li>\n", preferenceLabel(lead.Preference))
	if lead.ScheduleText != "" {
		fmt.Fprintf(&b, "  <li><b>Horario:</b> %s</li>\n", lead.ScheduleText)
	}
	fmt.Fprintf(&b, "  <li><b>PSID:</b> %s</li>\n", lead.UserID)
	fmt.Fprintf(&b, "  <li><b>Fecha:</b> %s</li>\n", lead.Timestamp.Format("02/01/2006 15:04"))
	b.WriteString("</ul>")
	return b.String()
}

// leadText renders the lead as a compact single message for SMS delivery.
func leadText(lead models.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nuevo lead (%s): %s, WhatsApp %s, preferencia %s",
		lead.Intent, lead.Name, lead.Phone, preferenceLabel(lead.Preference))
	if lead.ScheduleText != "" {
		fmt.Fprintf(&b, ", horario %s", lead.ScheduleText)
	}
	return b.String()
}
