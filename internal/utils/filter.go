package utils

import (
	"strings"
	"unicode"
)

// MaxQueryLength bounds a lookup term in runes.
const MaxQueryLength = 128

// ContainsLetter reports whether s has at least one letter
func ContainsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ContainsControlChars reports control characters such as NUL or escape
// sequences that have no place in a dictionary key.
func ContainsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidQuery checks if a raw term is worth sending to a dictionary.
// Surrounding whitespace is ignored.
func IsValidQuery(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return false
	}
	if len([]rune(s)) > MaxQueryLength {
		return false
	}
	if ContainsControlChars(s) {
		return false
	}
	return ContainsLetter(s)
}
