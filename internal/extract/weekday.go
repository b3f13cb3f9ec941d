package extract

import (
	"regexp"
	"strings"
)

// weekdayPattern matches a Spanish weekday name anywhere in accent-folded
// text, so "para el sábado" and "sabado" both resolve.
var weekdayPattern = regexp.MustCompile(`(lunes|martes|miercoles|jueves|viernes|sabado|domingo)`)

// canonicalWeekdays maps folded spellings to the canonical accented form.
var canonicalWeekdays = map[string]string{
	"lunes":     "lunes",
	"martes":    "martes",
	"miercoles": "miércoles",
	"jueves":    "jueves",
	"viernes":   "viernes",
	"sabado":    "sábado",
	"domingo":   "domingo",
}

// Weekday extracts a weekday name from free text, tolerating missing accent
// marks and surrounding words. It returns the canonical accented spelling,
// or a no-match for anything that names no weekday.
func Weekday(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, ".", "")
	t = normalizeSpace(FoldAccents(t))

	m := weekdayPattern.FindString(t)
	if m == "" {
		return "", false
	}
	return canonicalWeekdays[m], true
}
