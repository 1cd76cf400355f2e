// Package textutil contains the small text helpers shared by the pipeline
// stages: keyword normalization, whitespace cleanup and rune-safe truncation.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// asciiPunctuation mirrors the classic ASCII punctuation set.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Normalize lowercases s, removes ASCII punctuation and collapses runs of
// whitespace into single spaces.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// a Caser is stateful, so build one per call
	s = cases.Lower(language.Und).String(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, s)
	return CollapseWhitespace(s)
}

// CollapseWhitespace replaces every whitespace run with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Prefix returns the first n runes of s followed by an ellipsis, or s
// unchanged when it is not longer than n runes.
func Prefix(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + Ellipsis
}

// EnsureTerminal appends a period unless s already ends in terminal
// punctuation. Empty input stays empty.
func EnsureTerminal(s string) string {
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	if strings.HasSuffix(s, "…") || strings.HasSuffix(s, ".\"") || strings.HasSuffix(s, ".”") {
		return s
	}
	return s + "."
}

// RuneLen is the length of s in runes.
func RuneLen(s string) int {
	return len([]rune(s))
}
