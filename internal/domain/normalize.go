package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLemma prepares a vocabulary lemma for comparison:
//   - trims leading/trailing whitespace
//   - composes to Unicode NFC (BÍN exports may carry decomposed accents)
//   - compresses runs of whitespace into one space
//
// Case is preserved so proper nouns can still be told apart.
func NormalizeLemma(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsProperNoun reports whether the lemma starts with an uppercase letter.
func IsProperNoun(lemma string) bool {
	r, _ := utf8.DecodeRuneInString(lemma)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
