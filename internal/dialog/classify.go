package dialog

import (
	"regexp"
	"strings"

	"github.com/lotesmx/leadbot/internal/extract"
)

// normalizeUtterance lowercases, trims and accent-folds visitor text so the
// classifiers below can match with plain ASCII word boundaries.
func normalizeUtterance(text string) string {
	return strings.ToLower(strings.TrimSpace(extract.FoldAccents(text)))
}

// Yes/no classification uses whole-word containment anywhere in the
// utterance, so a longer sentence that merely contains the word can
// misfire. Retained as observed behavior.
var (
	yesWord = regexp.MustCompile(`\bsi\b`)
	noWord  = regexp.MustCompile(`\bno\b`)
)

func isYes(text string) bool {
	return yesWord.MatchString(normalizeUtterance(text))
}

func isNo(text string) bool {
	return noWord.MatchString(normalizeUtterance(text))
}

// wantsNowPatterns and wantsLaterPatterns are independent keyword tests for
// the written "call me now" vs "schedule a call" choice. When both or
// neither fire, the dialogue re-asks with explicit buttons instead of
// guessing.
var wantsNowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bahora\b`),
	regexp.MustCompile(`\bde una\b`),
	regexp.MustCompile(`\ben este momento\b`),
	regexp.MustCompile(`(llamen|marquen|llamar|hablen|me hablen|me llamen).*(ya|ahora|en este momento)`),
	regexp.MustCompile(`(quiero|prefiero).*(llamada|me hablen|me llamen|me marquen).*(ya|ahora|en este momento)`),
	regexp.MustCompile(`(quiero|prefiero).*(ahora|de una)`),
}

var wantsLaterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(agendar|agenda|programar|agendemos|citar|cita)`),
	regexp.MustCompile(`(quiero|prefiero).*(agendar|agenda|programar|cita|despues|mas tarde)`),
	regexp.MustCompile(`\b(despues|mas tarde)\b`),
}

func wantsNow(text string) bool {
	t := normalizeUtterance(text)
	for _, p := range wantsNowPatterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

func wantsLater(text string) bool {
	t := normalizeUtterance(text)
	for _, p := range wantsLaterPatterns {
		if p.MatchString(t) {
			return true
		}
	}
	return false
}

// offerTrigger routes idle free text to an offer by its vocabulary.
type offerTrigger struct {
	pattern *regexp.Regexp
	offer   string
}

const (
	offerContado   = "contado"
	offerUbicacion = "ubicacion"
	offerFinan     = "financiamiento"
	offerPromo6    = "promo6"
	offerApartar   = "apartar"
)

var offerTriggers = []offerTrigger{
	{regexp.MustCompile(`contado|precio`), offerContado},
	{regexp.MustCompile(`ubicacion|medidas|donde`), offerUbicacion},
	{regexp.MustCompile(`financia|mensual|mensuales|enganche|engache|meses|plan|financiamiento|pago`), offerFinan},
	{regexp.MustCompile(`promo|promocion|6\s*meses`), offerPromo6},
	{regexp.MustCompile(`apartar|reservar|apartad[oa]`), offerApartar},
}

// matchOffer returns the first offer whose trigger vocabulary appears in the
// utterance, or "" if none matches.
func matchOffer(text string) string {
	t := normalizeUtterance(text)
	for _, trig := range offerTriggers {
		if trig.pattern.MatchString(t) {
			return trig.offer
		}
	}
	return ""
}
