package dictionary

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize returns the lookup key for an English expression: case-folded,
// trimmed, and with every run of non-alphanumeric characters collapsed into a
// single space.
func Normalize(english string) string {
	// A Caser keeps state, so it is created per call.
	folded := cases.Fold().String(english)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// IsNativeText reports whether s is usable Korean text: non-empty after
// whitespace normalization and containing at least one Hangul rune.
func IsNativeText(s string) bool {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
