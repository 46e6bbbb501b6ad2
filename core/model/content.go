package model

import (
	"regexp"
	"strings"
)

// Token boundaries and markup stripped before counting.
var (
	// dashWordLimits are em/en dashes and double hyphens that separate words.
	dashWordLimits = regexp.MustCompile(`--|—|–`)

	// noWordLimits matches bracketed markup tags, comment blocks, single
	// hyphens and leading quote markers, none of which count as words.
	noWordLimits = regexp.MustCompile(`(?m)\[.+?\]|/\*.+?\*/|-|^>`)

	// nonLetters matches bracketed markup, comment blocks and line breaks,
	// none of which count as letters.
	nonLetters = regexp.MustCompile(`\[.+?\]|/\*.+?\*/|\n|\r`)
)

// CountContent returns the word and letter counts for scene text.
// Words are whitespace-separated tokens after markup stripping; letters are
// the remaining runes after markup and line breaks are removed.
func CountContent(text string) (words, letters int) {
	stripped := dashWordLimits.ReplaceAllString(text, " ")
	stripped = noWordLimits.ReplaceAllString(stripped, "")
	words = len(strings.Fields(stripped))
	letters = len([]rune(nonLetters.ReplaceAllString(text, "")))
	return words, letters
}

// SetContent assigns the scene text and recomputes the derived word and
// letter counts as a single operation.
func (s *Scene) SetContent(text string) {
	s.Content = &text
	s.WordCount, s.LetterCount = CountContent(text)
}
