package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeRule pairs a shape pattern with its validator/normalizer. Rules are
// tried in order; the first whose pattern matches decides the outcome.
type timeRule struct {
	pattern   *regexp.Regexp
	normalize func(m []string) (string, bool)
}

var timeRules = []timeRule{
	// 12-hour with meridiem marker, optional minutes, periods tolerated:
	// "9 am", "9:30 pm", "12:05a.m."
	{
		pattern: regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?\s*(a\.?m\.?|p\.?m\.?)$`),
		normalize: func(m []string) (string, bool) {
			mer := strings.ReplaceAll(m[3], ".", "")
			return normalize12h(m[1], m[2], mer)
		},
	},
	// Strict 24-hour H:MM / HH:MM: "9:00", "21:15".
	{
		pattern: regexp.MustCompile(`^(\d{1,2}):(\d{2})$`),
		normalize: func(m []string) (string, bool) {
			h, _ := strconv.Atoi(m[1])
			min, _ := strconv.Atoi(m[2])
			if h < 0 || h > 23 || min < 0 || min > 59 {
				return "", false
			}
			return fmt.Sprintf("%02d:%02d", h, min), true
		},
	},
	// Compact 12-hour without separator: "9pm", "930pm".
	{
		pattern: regexp.MustCompile(`^(\d{1,2})(?::?(\d{2}))?\s*(am|pm)$`),
		normalize: func(m []string) (string, bool) {
			return normalize12h(m[1], m[2], m[3])
		},
	},
}

// Time extracts a time of day from free text. It accepts 12-hour forms with
// a meridiem marker, strict 24-hour "H:MM"/"HH:MM", and compact 12-hour
// forms without a separator. On success it returns the normalized 24-hour
// "HH:MM" value and a display string (currently the same value). Anything
// outside these shapes, or out of range, is a no-match.
func Time(text string) (hhmm, display string, ok bool) {
	t := normalizeSpace(strings.ToLower(text))

	for _, rule := range timeRules {
		m := rule.pattern.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		v, valid := rule.normalize(m)
		if !valid {
			return "", "", false
		}
		return v, v, true
	}
	return "", "", false
}

// normalize12h converts a 12-hour reading to "HH:MM". Noon stays 12,
// midnight ("12 am") becomes 00.
func normalize12h(hourStr, minStr, meridiem string) (string, bool) {
	h, _ := strconv.Atoi(hourStr)
	min := 0
	if minStr != "" {
		min, _ = strconv.Atoi(minStr)
	}
	if h < 1 || h > 12 || min < 0 || min > 59 {
		return "", false
	}
	if meridiem == "pm" && h != 12 {
		h += 12
	}
	if meridiem == "am" && h == 12 {
		h = 0
	}
	return fmt.Sprintf("%02d:%02d", h, min), true
}
