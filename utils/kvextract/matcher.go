package kvextract

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeKey lowercases and trims s. A cases.Caser is stateful, so one is
// created per call.
func NormalizeKey(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Matches reports whether line is exactly key after normalization. Substrings
// never match, so "Name: Bob" does not match the key "Name".
func Matches(line, key string) bool {
	return matchesNormalized(line, NormalizeKey(key))
}

// matchesNormalized is Matches for a key that is already normalized.
func matchesNormalized(line, normKey string) bool {
	if normKey == "" || !IsContent(line) {
		return false
	}
	return NormalizeKey(line) == normKey
}
