package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// stripped is the fixed set of quote and punctuation characters removed by Normalize.
const stripped = "“”\"'‘’.,!?()-–—:;"

// Normalize canonicalizes text for comparison: NFC, lowercase, strip the fixed
// punctuation set, collapse whitespace and trim. It must be applied identically to
// queries and document fields. Normalize is idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// cases.Caser is stateful and not safe for concurrent use, so one per call.
	lowered := cases.Lower(language.Und).String(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(lowered))
	space := false
	for _, r := range lowered {
		if strings.ContainsRune(stripped, r) {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	// Stripping can bring a base letter and a combining mark together.
	return norm.NFC.String(b.String())
}
