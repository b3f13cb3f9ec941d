package dialog

import (
	"context"
	"fmt"

	"github.com/lotesmx/leadbot/internal/models"
)

// contextLabel phrases what the assistant will do for the visitor, used in
// the name prompt.
func contextLabel(intent models.Intent) string {
	switch intent {
	case models.IntentContado:
		return "tu cotización en pago de contado"
	case models.IntentUbicacion:
		return "enviarte la ubicación y darte seguimiento"
	case models.IntentFinanciamiento:
		return "armar tu plan de financiamiento"
	case models.IntentPromo6:
		return "enviarte los detalles de la promoción a 6 meses"
	case models.IntentApartar:
		return "procesar tu apartado de $5,000"
	default:
		return "continuar con tu solicitud"
	}
}

// sendYesNo sends a yes/no button pair carrying the given payloads.
func (e *Engine) sendYesNo(ctx context.Context, userID, text, yesPayload, noPayload string) error {
	return e.msg.SendButtons(ctx, userID, text, []models.Button{
		models.PostbackButton("✅ Sí", yesPayload),
		models.PostbackButton("❌ No", noPayload),
	})
}

// showMenu presents the two-part top-level menu.
func (e *Engine) showMenu(ctx context.Context, userID string) error {
	err := e.msg.SendButtons(ctx, userID,
		"Hola mucho gusto 🌅 Soy el asistente de Moisés Santillán/Grupo Linderos. ¿Qué info te interesa primero?",
		[]models.Button{
			models.PostbackButton("1️⃣ Precio de contado", models.PayloadMenuContado),
			models.PostbackButton("2️⃣ Ubicación y medidas", models.PayloadMenuUbicacion),
			models.PostbackButton("3️⃣ Financiamiento", models.PayloadMenuFinan),
		})
	if err != nil {
		return err
	}
	return e.msg.SendButtons(ctx, userID, "También tengo:",
		[]models.Button{
			models.PostbackButton("4️⃣ Promoción a 6 meses", models.PayloadMenuPromo6),
			models.PostbackButton("🟢 Apartar ahora", models.PayloadMenuApartar),
		})
}

// continueAfterLocation offers the next steps after the maps link is sent.
func (e *Engine) continueAfterLocation(ctx context.Context, userID string) error {
	err := e.msg.SendButtons(ctx, userID, "¿Qué te gustaría ver ahora?",
		[]models.Button{
			models.PostbackButton("💵 Precio de contado", models.PayloadMenuContado),
			models.PostbackButton("📝 Financiamiento", models.PayloadMenuFinan),
			models.PostbackButton("🎉 Promo 6 meses", models.PayloadMenuPromo6),
		})
	if err != nil {
		return err
	}
	return e.msg.SendButtons(ctx, userID, "También puedo:",
		[]models.Button{
			models.PostbackButton("🟢 Apartar ahora", models.PayloadMenuApartar),
			models.PostbackButton("⬅️ Ver menú", models.PayloadGetStarted),
		})
}

// askName prompts for the visitor's full name with intent-specific context.
func (e *Engine) askName(ctx context.Context, s *models.Session) error {
	prompt := fmt.Sprintf("Para %s, ¿me compartes tu **nombre completo**?", contextLabel(s.Intent))
	if err := e.msg.SendText(ctx, s.UserID, prompt); err != nil {
		return err
	}
	return e.msg.SendText(ctx, s.UserID, "Puedes escribir: *Mi nombre es Ana López* o *Me llamo Ana López* 🙂")
}

// askPhone prompts for the visitor's WhatsApp number.
func (e *Engine) askPhone(ctx context.Context, userID string) error {
	return e.msg.SendText(ctx, userID, "¡Gracias! Ahora pásame tu **WhatsApp** (10 dígitos). Ej.: *mi número es 9991234567* 📲")
}

// confirmName arms the name confirmation and asks the visitor to confirm.
func (e *Engine) confirmName(ctx context.Context, s *models.Session, name string) error {
	prompt := fmt.Sprintf("¿Confirmas que tu nombre es **%s**?", name)
	if err := e.sendYesNo(ctx, s.UserID, prompt, models.PayloadNameConfirmYes, models.PayloadNameConfirmNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadNameConfirmYes, OnNo: models.PayloadNameConfirmNo}
	return nil
}

// askCallPref asks whether the operator should call now or on a schedule,
// and flags the session as awaiting that choice.
func (e *Engine) askCallPref(ctx context.Context, s *models.Session) error {
	text := "👉 ¿Quieres que Moisés te marque *ahora* o prefieres *agendar* un horario? ⏰"
	if s.Intent == models.IntentApartar {
		text = "👉 ¿Quieres que Moisés te contacte *ahora* o prefieres *agendar* para procesar tu **apartado de $5,000**? ⏰"
	}
	err := e.msg.SendButtons(ctx, s.UserID, text, []models.Button{
		models.PostbackButton("📞 Ahora", models.PayloadCallNow),
		models.PostbackButton("⏰ Agendar", models.PayloadSchedule),
	})
	if err != nil {
		return err
	}
	s.AwaitingCallPreference = true
	return nil
}

// askScheduleDay prompts for a weekday.
func (e *Engine) askScheduleDay(ctx context.Context, userID string) error {
	if err := e.msg.SendText(ctx, userID, "⏰ Para agendar, dime primero un **día de la semana** (lunes a domingo)."); err != nil {
		return err
	}
	return e.msg.SendText(ctx, userID, "Ejemplos: *lunes*, *miércoles*, *sábado*")
}

// askScheduleTime prompts for an hour.
func (e *Engine) askScheduleTime(ctx context.Context, userID string) error {
	return e.msg.SendText(ctx, userID, "Genial. Ahora dime la **hora**. Acepto 24h (*18:30*) o 12h (*6:30 pm*).")
}

// confirmSchedule arms the schedule confirmation for the collected day and
// time.
func (e *Engine) confirmSchedule(ctx context.Context, s *models.Session, day, display string) error {
	prompt := fmt.Sprintf("¿Confirmo tu horario como: **%s %s**?", day, display)
	if err := e.sendYesNo(ctx, s.UserID, prompt, models.PayloadScheduleConfirmYes, models.PayloadScheduleConfirmNo); err != nil {
		return err
	}
	s.Confirmation = &models.Confirmation{OnYes: models.PayloadScheduleConfirmYes, OnNo: models.PayloadScheduleConfirmNo}
	return nil
}
