// Package models defines the core data structures for LeadBot.
//
// It includes the per-visitor session, the lead record handed to the
// notification sink, and the postback payload tokens shared across modules.
package models

import (
	"errors"
	"time"
)

// Intent identifies which offer the visitor is currently pursuing.
type Intent string

const (
	// IntentNone means no offer has been selected yet.
	IntentNone Intent = ""
	// IntentContado is the cash-price offer.
	IntentContado Intent = "contado"
	// IntentUbicacion is the location-and-measurements offer.
	IntentUbicacion Intent = "ubicacion"
	// IntentFinanciamiento is the financing-plan offer.
	IntentFinanciamiento Intent = "financiamiento"
	// IntentPromo6 is the six-month promotion offer.
	IntentPromo6 Intent = "promo6"
	// IntentApartar is the reservation offer.
	IntentApartar Intent = "apartar"
)

// Step identifies the session's position in the slot-filling flow.
type Step string

const (
	// StepIdle means no slot is being collected.
	StepIdle Step = ""
	// StepAskName collects the visitor's full name.
	StepAskName Step = "ask_name"
	// StepAskPhone collects the visitor's WhatsApp number.
	StepAskPhone Step = "ask_phone"
	// StepAskScheduleDay collects the preferred weekday.
	StepAskScheduleDay Step = "ask_schedule_day"
	// StepAskScheduleTime collects the preferred hour.
	StepAskScheduleTime Step = "ask_schedule_time"
)

// Preference records how the visitor wants to be contacted.
type Preference string

const (
	// PreferenceNow means the operator should call immediately.
	PreferenceNow Preference = "now"
	// PreferenceSchedule means the visitor picked a weekday and hour.
	PreferenceSchedule Preference = "schedule"
)

// Postback payload tokens. These literal strings travel to the channel as
// button payloads and come back verbatim as postback events.
const (
	PayloadGetStarted = "GET_STARTED"

	PayloadMenuContado   = "OPC_CONTADO"
	PayloadMenuUbicacion = "OPC_UBICACION"
	PayloadMenuFinan     = "OPC_FINAN"
	PayloadMenuPromo6    = "OPC_PROMO6"
	PayloadMenuApartar   = "OPC_APARTAR"

	PayloadContadoYes   = "CONTADO_SI"
	PayloadContadoNo    = "CONTADO_NO"
	PayloadUbicacionYes = "UBICACION_SI"
	PayloadUbicacionNo  = "UBICACION_NO"
	PayloadFinanYes     = "FINAN_SI"
	PayloadFinanNo      = "FINAN_NO"
	PayloadPromo6Yes    = "PROMO6_SI"
	PayloadPromo6No     = "PROMO6_NO"
	PayloadApartarYes   = "APARTAR_SI"
	PayloadApartarNo    = "APARTAR_NO"

	PayloadNameConfirmYes = "NAME_CONFIRM_YES"
	PayloadNameConfirmNo  = "NAME_CONFIRM_NO"

	PayloadCallNow  = "LLAMAR_AHORA"
	PayloadSchedule = "AGENDAR"

	PayloadScheduleConfirmYes = "SCHEDULE_CONFIRM_YES"
	PayloadScheduleConfirmNo  = "SCHEDULE_CONFIRM_NO"
)

// Validation constants for outbound button templates.
const (
	// MinButtonCount is the minimum number of buttons the channel accepts per template.
	MinButtonCount = 2
	// MaxButtonCount is the maximum number of buttons the channel accepts per template.
	MaxButtonCount = 5
)

// Error variables for better error handling and testability.
var (
	ErrEmptyUserID        = errors.New("user id cannot be empty")
	ErrEmptyButtonTitle   = errors.New("button title cannot be empty")
	ErrEmptyButtonPayload = errors.New("button payload cannot be empty")
	ErrTooFewButtons      = errors.New("button template requires at least two buttons")
	ErrTooManyButtons     = errors.New("button template allows at most five buttons")
	ErrLeadMissingIntent  = errors.New("lead intent is required")
	ErrLeadMissingName    = errors.New("lead name is required")
	ErrLeadMissingPhone   = errors.New("lead phone is required")
	ErrLeadMissingSlot    = errors.New("lead schedule text is required for scheduled preference")
	ErrInvalidPreference  = errors.New("lead preference must be now or schedule")
)

// Confirmation is a pending yes/no arbitration overlaying the base step.
// OnYes and OnNo carry the postback payloads to dispatch on each answer.
type Confirmation struct {
	OnYes string `json:"on_yes"`
	OnNo  string `json:"on_no"`
}

// Session holds the full dialogue state for one visitor, keyed by the
// channel's opaque user identifier. The Step and Confirmation fields are
// orthogonal: a confirmation may interrupt any step and resumes it when
// answered.
type Session struct {
	UserID       string `json:"user_id"`
	Intent       Intent `json:"intent,omitempty"`
	Name         string `json:"name,omitempty"`
	PendingName  string `json:"pending_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Step         Step   `json:"step,omitempty"`
	ScheduleDay  string `json:"schedule_day,omitempty"`
	ScheduleTime string `json:"schedule_time,omitempty"`
	ScheduleText string `json:"schedule_text,omitempty"`

	Confirmation           *Confirmation `json:"confirmation,omitempty"`
	AwaitingCallPreference bool          `json:"awaiting_call_preference,omitempty"`

	LastActive time.Time `json:"last_active"`
}

// NewSession returns a fresh session for the given user identifier.
func NewSession(userID string) *Session {
	return &Session{UserID: userID, LastActive: time.Now()}
}

// Complete reports whether the session holds both a confirmed name and a
// phone number. This predicate gates the call-preference transitions.
func (s *Session) Complete() bool {
	return s.Name != "" && s.Phone != ""
}

// Sanitize clears the confirmation overlay and call-preference flag without
// touching collected slots. Used when the visitor jumps back to the menu.
func (s *Session) Sanitize() {
	s.Confirmation = nil
	s.AwaitingCallPreference = false
}

// Clear resets the session to its initial values, keeping only the user
// identifier. Called after a lead is emitted, after a decline, and when the
// visitor returns to the top-level menu.
func (s *Session) Clear() {
	*s = Session{UserID: s.UserID, LastActive: time.Now()}
}

// Touch updates the last-activity timestamp recorded with the session.
func (s *Session) Touch() {
	s.LastActive = time.Now()
}

// Lead is the completed, notification-worthy record of a visitor's contact
// details and preference.
type Lead struct {
	ID           string     `json:"id"`
	Intent       Intent     `json:"intent"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Preference   Preference `json:"preference"`
	ScheduleText string     `json:"schedule_text,omitempty"`
	UserID       string     `json:"user_id"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Validate checks that the lead carries every field the operator needs.
// A lead is never partially sent.
func (l Lead) Validate() error {
	if l.Intent == IntentNone {
		return ErrLeadMissingIntent
	}
	if l.Name == "" {
		return ErrLeadMissingName
	}
	if l.Phone == "" {
		return ErrLeadMissingPhone
	}
	switch l.Preference {
	case PreferenceNow:
	case PreferenceSchedule:
		if l.ScheduleText == "" {
			return ErrLeadMissingSlot
		}
	default:
		return ErrInvalidPreference
	}
	if l.UserID == "" {
		return ErrEmptyUserID
	}
	return nil
}

// Button is one selectable option in an outbound button template. Its
// payload will be echoed back as a future postback event.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// PostbackButton builds a postback-type button.
func PostbackButton(title, payload string) Button {
	return Button{Type: "postback", Title: title, Payload: payload}
}

// ValidateButtons checks a button set against the channel's template limits.
func ValidateButtons(buttons []Button) error {
	if len(buttons) < MinButtonCount {
		return ErrTooFewButtons
	}
	if len(buttons) > MaxButtonCount {
		return ErrTooManyButtons
	}
	for _, b := range buttons {
		if b.Title == "" {
			return ErrEmptyButtonTitle
		}
		if b.Payload == "" {
			return ErrEmptyButtonPayload
		}
	}
	return nil
}
