// Package textproc splits raw document text into sentences and tokens and
// computes the cleaned projection of tokens.
package textproc

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Clean strips every rune that is not a letter, a number or an underscore
// and lower-cases the rest. Punctuation and symbols are recognised by Unicode
// category, so no per-language character list is involved.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	// A Caser keeps state between calls and must not be shared across goroutines.
	return cases.Lower(language.Und).String(b.String())
}

// Tokenize splits a sentence into whitespace-delimited tokens.
func Tokenize(sentence string) []string {
	return strings.Fields(sentence)
}

// NormalizeSpace collapses runs of whitespace into single spaces.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsPunctuation reports whether s is non-empty and made of punctuation or
// symbol runes only.
func IsPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// IsNumeric reports whether s is non-empty and made of digits only.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}
