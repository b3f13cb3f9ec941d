package models

import (
	"errors"
	"testing"
)

func TestLeadValidate(t *testing.T) {
	valid := Lead{
		ID:         "lead-1",
		Intent:     IntentContado,
		Name:       "Ana López",
		Phone:      "+529991234567",
		Preference: PreferenceNow,
		UserID:     "user1",
	}

	tests := []struct {
		name    string
		mutate  func(*Lead)
		wantErr error
	}{
		{"valid now", func(l *Lead) {}, nil},
		{"valid schedule", func(l *Lead) {
			l.Preference = PreferenceSchedule
			l.ScheduleText = "sábado 18:30"
		}, nil},
		{"missing intent", func(l *Lead) { l.Intent = IntentNone }, ErrLeadMissingIntent},
		{"missing name", func(l *Lead) { l.Name = "" }, ErrLeadMissingName},
		{"missing phone", func(l *Lead) { l.Phone = "" }, ErrLeadMissingPhone},
		{"schedule without text", func(l *Lead) { l.Preference = PreferenceSchedule }, ErrLeadMissingSlot},
		{"bad preference", func(l *Lead) { l.Preference = "later" }, ErrInvalidPreference},
		{"missing user id", func(l *Lead) { l.UserID = "" }, ErrEmptyUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := valid
			tt.mutate(&lead)
			err := lead.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateButtons(t *testing.T) {
	two := []Button{
		PostbackButton("✅ Sí", "YES"),
		PostbackButton("❌ No", "NO"),
	}

	if err := ValidateButtons(two); err != nil {
		t.Errorf("ValidateButtons(two) = %v, want nil", err)
	}
	if err := ValidateButtons(two[:1]); !errors.Is(err, ErrTooFewButtons) {
		t.Errorf("ValidateButtons(one) = %v, want %v", err, ErrTooFewButtons)
	}

	six := make([]Button, 6)
	for i := range six {
		six[i] = PostbackButton("T", "P")
	}
	if err := ValidateButtons(six); !errors.Is(err, ErrTooManyButtons) {
		t.Errorf("ValidateButtons(six) = %v, want %v", err, ErrTooManyButtons)
	}

	blankTitle := []Button{PostbackButton("", "P"), PostbackButton("T", "P")}
	if err := ValidateButtons(blankTitle); !errors.Is(err, ErrEmptyButtonTitle) {
		t.Errorf("ValidateButtons(blank title) = %v, want %v", err, ErrEmptyButtonTitle)
	}

	blankPayload := []Button{PostbackButton("T", ""), PostbackButton("T", "P")}
	if err := ValidateButtons(blankPayload); !errors.Is(err, ErrEmptyButtonPayload) {
		t.Errorf("ValidateButtons(blank payload) = %v, want %v", err, ErrEmptyButtonPayload)
	}
}

func TestSessionComplete(t *testing.T) {
	s := NewSession("user1")
	if s.Complete() {
		t.Error("fresh session should not be complete")
	}
	s.Name = "Ana López"
	if s.Complete() {
		t.Error("session without phone should not be complete")
	}
	s.Phone = "+529991234567"
	if !s.Complete() {
		t.Error("session with name and phone should be complete")
	}
}

func TestSessionClearKeepsUserID(t *testing.T) {
	s := NewSession("user1")
	s.Intent = IntentApartar
	s.Name = "Ana López"
	s.Phone = "+529991234567"
	s.Step = StepAskScheduleTime
	s.ScheduleDay = "sábado"
	s.Confirmation = &Confirmation{OnYes: PayloadScheduleConfirmYes, OnNo: PayloadScheduleConfirmNo}
	s.AwaitingCallPreference = true

	s.Clear()

	if s.UserID != "user1" {
		t.Errorf("UserID = %q, want %q", s.UserID, "user1")
	}
	if s.Intent != IntentNone || s.Name != "" || s.Phone != "" || s.Step != StepIdle {
		t.Errorf("slots survived Clear: %+v", s)
	}
	if s.Confirmation != nil || s.AwaitingCallPreference {
		t.Errorf("overlay survived Clear: %+v", s)
	}
	if s.LastActive.IsZero() {
		t.Error("LastActive should be refreshed by Clear")
	}
}

func TestSessionSanitizeKeepsSlots(t *testing.T) {
	s := NewSession("user1")
	s.Intent = IntentContado
	s.Name = "Ana López"
	s.Confirmation = &Confirmation{OnYes: PayloadContadoYes, OnNo: PayloadContadoNo}
	s.AwaitingCallPreference = true

	s.Sanitize()

	if s.Confirmation != nil || s.AwaitingCallPreference {
		t.Errorf("overlay survived Sanitize: %+v", s)
	}
	if s.Intent != IntentContado || s.Name != "Ana López" {
		t.Errorf("slots should survive Sanitize: %+v", s)
	}
}
