package lang

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// greetingSimilarity is the minimum normalized edit similarity for a fuzzy
// greeting match. Absorbs minor transcription noise from speech-to-text,
// e.g. "helo" still matches "hello".
const greetingSimilarity = 0.8

// IsGreeting reports whether the question is a greeting in its detected
// language. The normalized question and its first token are tested for
// equality, prefix match and fuzzy similarity against the greeting set.
func IsGreeting(question string) bool {
	q := Normalize(question)
	if q == "" {
		return false
	}
	first, _, _ := strings.Cut(q, " ")

	for _, g := range tables[Detect(question)].greetings {
		if q == g || strings.HasPrefix(q, g+" ") {
			return true
		}
		if levenshtein.Match(q, g, nil) >= greetingSimilarity {
			return true
		}
		if levenshtein.Match(first, g, nil) >= greetingSimilarity {
			return true
		}
	}
	return false
}

// Normalize lowercases, strips punctuation and symbols, and collapses
// whitespace.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
