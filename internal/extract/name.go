package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namePhrasePatterns are tried in order against the trimmed input. Each
// captures the candidate name after a common self-introduction phrase.
var namePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)mi\s+nombre\s+es[:\s]+([a-záéíóúüñ\s']{3,60})$`),
	regexp.MustCompile(`(?i)me\s+llamo\s+([a-záéíóúüñ\s']{3,60})$`),
	regexp.MustCompile(`(?i)soy\s+([a-záéíóúüñ\s']{3,60})$`),
	regexp.MustCompile(`(?i)(?:^|\b)nombre\s*[:\-]\s*([a-záéíóúüñ\s']{3,60})$`),
}

var (
	nonNameChars = regexp.MustCompile(`(?i)[^a-záéíóúüñ\s']`)
	nameShape    = regexp.MustCompile(`(?i)^[a-záéíóúüñ\s']+$`)
	nameTitler   = cases.Title(language.Spanish)
)

// Name extracts a full name from free text. It first tries explicit phrase
// patterns ("mi nombre es ...", "me llamo ...", "soy ...", "nombre: ...");
// if none match, the whole input is treated as a bare name. A candidate is
// accepted only if, after cleaning, it yields at least two words of letters
// and apostrophes; single-word names are never guessed. The returned name
// is title-cased and single-spaced.
func Name(text string) (string, bool) {
	t := strings.TrimSpace(text)

	for _, pat := range namePhrasePatterns {
		m := pat.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		cand := normalizeName(nonNameChars.ReplaceAllString(m[1], ""))
		if len(strings.Fields(cand)) >= 2 && nameShape.MatchString(cand) {
			return cand, true
		}
	}

	// Fallback: the whole input looks like a bare name (two or more words).
	cleaned := normalizeSpace(nonNameChars.ReplaceAllString(t, " "))
	if cleaned != "" && nameShape.MatchString(cleaned) {
		cand := normalizeName(cleaned)
		if len(strings.Fields(cand)) >= 2 {
			return cand, true
		}
	}

	return "", false
}

// normalizeName single-spaces and title-cases each word of a candidate name.
func normalizeName(name string) string {
	return nameTitler.String(normalizeSpace(name))
}
