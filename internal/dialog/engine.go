// Package dialog implements the sales-qualification dialogue: the
// intent/slot-filling state machine, the yes/no confirmation overlay, and
// the per-visitor event dispatcher.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lotesmx/leadbot/internal/extract"
	"github.com/lotesmx/leadbot/internal/leads"
	"github.com/lotesmx/leadbot/internal/messaging"
	"github.com/lotesmx/leadbot/internal/models"
	"github.com/lotesmx/leadbot/internal/session"
)

// mapsLocation is the Google Maps link shared on the location branch.
const mapsLocation = "🗺️ Ubicación en Google Maps:\nhttps://maps.app.goo.gl/MCdjyEouQhxTnUbx5"

// Event is one inbound occurrence for a visitor: a postback token or free
// text, never both.
type Event struct {
	UserID   string
	Postback string
	Text     string
}

// PostbackEvent builds a token event.
func PostbackEvent(userID, payload string) Event {
	return Event{UserID: userID, Postback: payload}
}

// TextEvent builds a free-text event.
func TextEvent(userID, text string) Event {
	return Event{UserID: userID, Text: text}
}

// Engine owns all session transitions. It consumes extractor output and
// confirmation results and decides which prompt to emit next. A send or
// notification failure aborts the current event but never rolls back
// state already mutated.
type Engine struct {
	msg      messaging.Service
	sessions session.Store
	composer *leads.Composer
}

// NewEngine creates the dialogue engine.
func NewEngine(msg messaging.Service, sessions session.Store, composer *leads.Composer) *Engine {
	return &Engine{msg: msg, sessions: sessions, composer: composer}
}

// Handle resolves the visitor's session, routes the event, and persists the
// session afterwards.
func (e *Engine) Handle(ctx context.Context, ev Event) error {
	s, err := e.sessions.GetOrCreate(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("resolve session for %s: %w", ev.UserID, err)
	}

	var handleErr error
	if ev.Postback != "" {
		handleErr = e.handlePostback(ctx, s, ev.Postback)
	} else {
		handleErr = e.handleText(ctx, s, ev.Text)
	}

	if err := e.sessions.Save(ctx, s); err != nil {
		slog.Error("Engine session save failed", "error", err, "user_id", ev.UserID)
	}
	return handleErr
}

// resetSession clears the in-hand session and persists the reset.
func (e *Engine) resetSession(ctx context.Context, s *models.Session) {
	s.Clear()
	if err := e.sessions.Reset(ctx, s.UserID); err != nil {
		slog.Error("Engine session reset failed", "error", err, "user_id", s.UserID)
	}
}

// handlePostback routes a token event. Unrecognized tokens are logged and
// leave the session unchanged.
func (e *Engine) handlePostback(ctx context.Context, s *models.Session, payload string) error {
	slog.Debug("Engine handlePostback", "user_id", s.UserID, "payload", payload, "step", s.Step)

	switch payload {
	// Top-level menu.
	case models.PayloadGetStarted:
		s.Sanitize()
		return e.showMenu(ctx, s.UserID)
	case models.PayloadMenuContado:
		s.Sanitize()
		return e.offerContadoPitch(ctx, s)
	case models.PayloadMenuUbicacion:
		s.Sanitize()
		return e.offerUbicacionPitch(ctx, s)
	case models.PayloadMenuFinan:
		s.Sanitize()
		return e.offerFinanPitch(ctx, s)
	case models.PayloadMenuPromo6:
		s.Sanitize()
		return e.offerPromo6Pitch(ctx, s)
	case models.PayloadMenuApartar:
		s.Sanitize()
		return e.offerApartarPitch(ctx, s)

	// Informational offers, yes: start collecting the name.
	case models.PayloadContadoYes, models.PayloadFinanYes, models.PayloadPromo6Yes:
		s.Confirmation = nil
		s.Step = models.StepAskName
		return e.askName(ctx, s)

	// Location, yes: share the link and offer next steps, no slot filling.
	case models.PayloadUbicacionYes:
		s.Confirmation = nil
		if err := e.msg.SendText(ctx, s.UserID, mapsLocation); err != nil {
			return err
		}
		return e.continueAfterLocation(ctx, s.UserID)

	// Any offer declined: reset and return to the menu.
	case models.PayloadContadoNo, models.PayloadUbicacionNo, models.PayloadFinanNo, models.PayloadPromo6No:
		if err := e.msg.SendText(ctx, s.UserID, "¡Sin problema! Te dejo el menú por si quieres ver otra opción 👇"); err != nil {
			return err
		}
		e.resetSession(ctx, s)
		return e.showMenu(ctx, s.UserID)

	// Reservation, yes: collect missing slots or jump to call preference.
	case models.PayloadApartarYes:
		s.Confirmation = nil
		if !s.Complete() {
			return e.detourToMissingSlot(ctx, s)
		}
		return e.askCallPref(ctx, s)
	case models.PayloadApartarNo:
		if err := e.msg.SendText(ctx, s.UserID, "¡Sin problema! Si quieres revisar más info antes, aquí está el menú 👇"); err != nil {
			return err
		}
		e.resetSession(ctx, s)
		return e.showMenu(ctx, s.UserID)

	// Name confirmation.
	case models.PayloadNameConfirmYes:
		s.Confirmation = nil
		if s.PendingName == "" {
			s.Step = models.StepAskName
			return e.askName(ctx, s)
		}
		s.Name = s.PendingName
		s.PendingName = ""
		if err := e.msg.SendText(ctx, s.UserID, fmt.Sprintf("Perfecto, *%s* ✅", s.Name)); err != nil {
			return err
		}
		s.Step = models.StepAskPhone
		return e.askPhone(ctx, s.UserID)
	case models.PayloadNameConfirmNo:
		s.Confirmation = nil
		s.PendingName = ""
		s.Name = ""
		s.Step = models.StepAskName
		if err := e.msg.SendText(ctx, s.UserID, "Sin problema, escríbelo de nuevo por fa (nombre y apellido)."); err != nil {
			return err
		}
		return e.askName(ctx, s)

	// Call preference.
	case models.PayloadCallNow:
		s.AwaitingCallPreference = false
		if !s.Complete() {
			return e.detourToMissingSlot(ctx, s)
		}
		if err := e.msg.SendText(ctx, s.UserID, "¡Listo! ✅ Le aviso a Moisés que te contacte *ahora*. ¡Gracias!"); err != nil {
			return err
		}
		if _, err := e.composer.Emit(ctx, s, models.PreferenceNow, ""); err != nil {
			return err
		}
		e.resetSession(ctx, s)
		if err := e.msg.SendText(ctx, s.UserID, "Si quieres ver otra opción, elige del menú 👇"); err != nil {
			return err
		}
		return e.showMenu(ctx, s.UserID)
	case models.PayloadSchedule:
		s.AwaitingCallPreference = false
		if !s.Complete() {
			return e.detourToMissingSlot(ctx, s)
		}
		s.Step = models.StepAskScheduleDay
		s.ScheduleDay = ""
		s.ScheduleTime = ""
		return e.askScheduleDay(ctx, s.UserID)

	// Schedule confirmation.
	case models.PayloadScheduleConfirmYes:
		s.Confirmation = nil
		if !s.Complete() || s.ScheduleDay == "" || s.ScheduleTime == "" {
			s.Step = models.StepAskScheduleDay
			s.ScheduleDay = ""
			s.ScheduleTime = ""
			if err := e.msg.SendText(ctx, s.UserID, "Vamos a intentarlo de nuevo 😉"); err != nil {
				return err
			}
			return e.askScheduleDay(ctx, s.UserID)
		}
		if err := e.msg.SendText(ctx, s.UserID, "¡Perfecto! ✅ Agendo esa hora y le aviso a Moisés para que te contacte."); err != nil {
			return err
		}
		scheduleText := s.ScheduleText
		if scheduleText == "" {
			scheduleText = s.ScheduleDay + " " + s.ScheduleTime
		}
		if _, err := e.composer.Emit(ctx, s, models.PreferenceSchedule, scheduleText); err != nil {
			return err
		}
		e.resetSession(ctx, s)
		if err := e.msg.SendText(ctx, s.UserID, "¿Quieres ver otra opción? Aquí tienes el menú 👇"); err != nil {
			return err
		}
		return e.showMenu(ctx, s.UserID)
	case models.PayloadScheduleConfirmNo:
		s.Confirmation = nil
		s.ScheduleTime = ""
		s.ScheduleText = ""
		s.Step = models.StepAskScheduleDay
		if err := e.msg.SendText(ctx, s.UserID, "Ok, intentémoslo de nuevo. Dime un **día de la semana** (lunes a domingo)."); err != nil {
			return err
		}
		return e.askScheduleDay(ctx, s.UserID)

	default:
		slog.Warn("Engine unrecognized payload", "user_id", s.UserID, "payload", payload)
		return nil
	}
}

// detourToMissingSlot sends the visitor to whichever of name/phone is still
// missing before the call-preference step can proceed.
func (e *Engine) detourToMissingSlot(ctx context.Context, s *models.Session) error {
	if s.Name != "" {
		s.Step = models.StepAskPhone
		return e.askPhone(ctx, s.UserID)
	}
	s.Step = models.StepAskName
	return e.askName(ctx, s)
}

// handleText routes a free-text event. Rules are tried in priority order
// and exactly one fires.
func (e *Engine) handleText(ctx context.Context, s *models.Session, text string) error {
	text = strings.TrimSpace(text)
	slog.Debug("Engine handleText", "user_id", s.UserID, "step", s.Step, "length", len(text))

	// 1. Written choice of "now" vs "schedule".
	if s.AwaitingCallPreference {
		now, later := wantsNow(text), wantsLater(text)
		switch {
		case now && !later:
			s.AwaitingCallPreference = false
			return e.handlePostback(ctx, s, models.PayloadCallNow)
		case later && !now:
			s.AwaitingCallPreference = false
			return e.handlePostback(ctx, s, models.PayloadSchedule)
		}
		// Ambiguous: never guess, re-ask with explicit buttons.
		return e.msg.SendButtons(ctx, s.UserID,
			"¿Prefieres que te contactemos **ahora** o **agendar** un horario? ⏰",
			[]models.Button{
				models.PostbackButton("📞 Ahora", models.PayloadCallNow),
				models.PostbackButton("⏰ Agendar", models.PayloadSchedule),
			})
	}

	// 2. Collecting the name. A typed yes/no answers the pending name
	// confirmation; anything else goes through the extractor.
	if s.Step == models.StepAskName {
		if isYes(text) {
			return e.handlePostback(ctx, s, models.PayloadNameConfirmYes)
		}
		if isNo(text) {
			return e.handlePostback(ctx, s, models.PayloadNameConfirmNo)
		}
		if name, ok := extract.Name(text); ok {
			s.PendingName = name
			return e.confirmName(ctx, s, name)
		}
		if err := e.msg.SendText(ctx, s.UserID, "No me quedó claro 😅. Escribe tu *nombre completo* (nombre y apellido)."); err != nil {
			return err
		}
		return e.askName(ctx, s)
	}

	// 3. An armed confirmation answered as free text.
	if s.Confirmation != nil && (isYes(text) || isNo(text)) {
		payload := s.Confirmation.OnNo
		if isYes(text) {
			payload = s.Confirmation.OnYes
		}
		s.Confirmation = nil
		return e.handlePostback(ctx, s, payload)
	}

	// 4. Collecting the phone.
	if s.Step == models.StepAskPhone {
		phone, ok := extract.Phone(text)
		if !ok {
			if err := e.msg.SendText(ctx, s.UserID, "El WhatsApp debe tener **10 dígitos** en México. Ej.: 9991234567"); err != nil {
				return err
			}
			return e.askPhone(ctx, s.UserID)
		}
		s.Phone = phone
		if err := e.msg.SendText(ctx, s.UserID, fmt.Sprintf("Guardé tu WhatsApp: *%s* ✅", phone)); err != nil {
			return err
		}
		if s.Complete() {
			return e.askCallPref(ctx, s)
		}
		// Defensive: the name is somehow still missing.
		s.Step = models.StepAskName
		return e.askName(ctx, s)
	}

	// 5. Collecting the weekday.
	if s.Step == models.StepAskScheduleDay {
		day, ok := extract.Weekday(text)
		if !ok {
			if err := e.msg.SendText(ctx, s.UserID, "No identifiqué un día válido 😅. Dime un día de la semana: *lunes* a *domingo*."); err != nil {
				return err
			}
			return e.askScheduleDay(ctx, s.UserID)
		}
		s.ScheduleDay = day
		s.Step = models.StepAskScheduleTime
		if err := e.msg.SendText(ctx, s.UserID, fmt.Sprintf("Perfecto, **%s**.", day)); err != nil {
			return err
		}
		return e.askScheduleTime(ctx, s.UserID)
	}

	// 6. Collecting the hour.
	if s.Step == models.StepAskScheduleTime {
		hhmm, display, ok := extract.Time(text)
		if !ok {
			if err := e.msg.SendText(ctx, s.UserID, "No reconocí la hora 😅. Ejemplos válidos: *18:30*, *6:30 pm*, *9 am*."); err != nil {
				return err
			}
			return e.askScheduleTime(ctx, s.UserID)
		}
		s.ScheduleTime = hhmm
		s.ScheduleText = s.ScheduleDay + " " + display
		return e.confirmSchedule(ctx, s, s.ScheduleDay, display)
	}

	// 7. No active step: route by offer vocabulary, else show the menu.
	switch matchOffer(text) {
	case offerContado:
		return e.offerContadoPitch(ctx, s)
	case offerUbicacion:
		return e.offerUbicacionPitch(ctx, s)
	case offerFinan:
		return e.offerFinanPitch(ctx, s)
	case offerPromo6:
		return e.offerPromo6Pitch(ctx, s)
	case offerApartar:
		return e.offerApartarPitch(ctx, s)
	}
	return e.showMenu(ctx, s.UserID)
}

// Offer pitches. Each presents the offer, arms its yes/no confirmation, and
// records the intent.

func (e *Engine) offerContadoPitch(ctx context.Context, s *models.Session) error {
	if err := e.msg.SendText(ctx, s.UserID, "Los terrenos son de 500 m² y el *precio de contado* es de *$185,000* 💵\nCon este plan tienes *escrituración inmediata* 🖊️"); err != nil {
		return err
	}
	if err := e.sendYesNo(ctx, s.UserID, "👉 ¿Quieres que Moisés te prepare tu cotización en pago de contado? 📲", models.PayloadContadoYes, models.PayloadContadoNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadContadoYes, OnNo: models.PayloadContadoNo}
	s.Intent = models.IntentContado
	return nil
}

func (e *Engine) offerUbicacionPitch(ctx context.Context, s *models.Session) error {
	if err := e.msg.SendText(ctx, s.UserID, "Nuestros terrenos están en *Ucú, Yucatán*, a solo *15 minutos del periférico Mérida* 🚗"); err != nil {
		return err
	}
	if err := e.msg.SendText(ctx, s.UserID, "Cada lote mide *500 m² (10 x 50 aprox.)* 📐\nEs una zona de *alto crecimiento* y formamos parte del proyecto *Renacimiento Maya* 🏡"); err != nil {
		return err
	}
	if err := e.sendYesNo(ctx, s.UserID, "👉 ¿Quieres que te comparta la ubicación en Google Maps para que veas qué tan cerca está? 🌎", models.PayloadUbicacionYes, models.PayloadUbicacionNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadUbicacionYes, OnNo: models.PayloadUbicacionNo}
	s.Intent = models.IntentUbicacion
	return nil
}

func (e *Engine) offerFinanPitch(ctx context.Context, s *models.Session) error {
	if err := e.msg.SendText(ctx, s.UserID, "¡Claro! 🙌 Puedes *apartar con $5,000* y dar un *enganche desde el 20%*."); err != nil {
		return err
	}
	if err := e.msg.SendText(ctx, s.UserID, "Después eliges un plan de *hasta 36 meses* 🗓️"); err != nil {
		return err
	}
	if err := e.sendYesNo(ctx, s.UserID, "👉 ¿Quieres que te muestre la tabla de pagos mensuales y te arme la mejor opción? 💵", models.PayloadFinanYes, models.PayloadFinanNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadFinanYes, OnNo: models.PayloadFinanNo}
	s.Intent = models.IntentFinanciamiento
	return nil
}

func (e *Engine) offerPromo6Pitch(ctx context.Context, s *models.Session) error {
	if err := e.msg.SendText(ctx, s.UserID, "Este mes tenemos una *promo especial a 6 meses* 🔥"); err != nil {
		return err
	}
	if err := e.msg.SendText(ctx, s.UserID, "Con *pago diferido* puedes asegurar tu terreno más rápido y con *beneficios exclusivos* ✨"); err != nil {
		return err
	}
	if err := e.sendYesNo(ctx, s.UserID, "👉 ¿Quieres que Moisés te dé los detalles de la promo y te reserve tu lote? 📲", models.PayloadPromo6Yes, models.PayloadPromo6No); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadPromo6Yes, OnNo: models.PayloadPromo6No}
	s.Intent = models.IntentPromo6
	return nil
}

func (e *Engine) offerApartarPitch(ctx context.Context, s *models.Session) error {
	if err := e.msg.SendText(ctx, s.UserID, "¡Excelente decisión! 🟢 El *apartado es de $5,000* para asegurar tu lote en Ucú."); err != nil {
		return err
	}
	if err := e.sendYesNo(ctx, s.UserID, "👉 ¿Quieres avanzar *ahora mismo* con tu apartado?", models.PayloadApartarYes, models.PayloadApartarNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadApartarYes, OnNo: models.PayloadApartarNo}
	s.Intent = models.IntentApartar
	return nil
}
