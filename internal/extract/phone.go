package extract

import (
	"regexp"
	"strings"
)

const (
	// countryPrefix is the Mexican national dialing prefix.
	countryPrefix = "52"
	// nationalDigits is the length of a Mexican subscriber number.
	nationalDigits = 10
)

var (
	digitRuns = regexp.MustCompile(`\d+`)
	// subscriberShape matches ten digits starting with 2-9, per national
	// mobile/landline numbering.
	subscriberShape = regexp.MustCompile(`^[2-9]\d{9}$`)
)

// Phone extracts a Mexican WhatsApp number from free text. All digit runs
// in the input are concatenated; a result carrying the 52 country prefix
// with at least twelve digits keeps its last ten, and a bare ten-digit
// result is used as-is. Anything else, or a number starting with 0 or 1,
// is a no-match. The result is normalized to "+52" plus ten digits.
func Phone(text string) (string, bool) {
	digits := strings.Join(digitRuns.FindAllString(text, -1), "")

	var ten string
	switch {
	case strings.HasPrefix(digits, countryPrefix) && len(digits) >= nationalDigits+2:
		ten = digits[len(digits)-nationalDigits:]
	case len(digits) == nationalDigits:
		ten = digits
	default:
		return "", false
	}

	if !subscriberShape.MatchString(ten) {
		return "", false
	}
	return "+" + countryPrefix + ten, true
}
