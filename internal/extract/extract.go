// Package extract provides the deterministic slot extractors for LeadBot.
//
// Each extractor is a pure function that turns raw visitor text into a
// typed, normalized value: full name, Mexican phone number, Spanish weekday,
// or time of day. Extractors are ordered rule cascades (pattern, validator,
// normalizer) and report an explicit no-match instead of guessing when
// validation fails.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining accent marks: NFD decomposition, removal
// of nonspacing marks, NFC recomposition.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents returns s with accent marks removed ("sábado" -> "sabado").
// The weekday extractor and the dialogue's utterance classifiers both match
// against folded text.
func FoldAccents(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// normalizeSpace collapses whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
