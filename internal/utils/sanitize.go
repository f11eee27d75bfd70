package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// controlCharPattern matches control characters except common whitespace.
var controlCharPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// CleanUserText strips control characters from free-text user input and
// caps its length. Used for additional-info notes, comments and reasons
// before they enter the history ledger. The cap never splits a rune, so
// the ledger only ever stores valid UTF-8.
func CleanUserText(text string, maxLen int) string {
	text = controlCharPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if maxLen > 0 && len(text) > maxLen {
		text = strings.TrimSpace(truncateToRuneBoundary(text, maxLen))
	}
	return text
}

// truncateToRuneBoundary cuts text to at most maxLen bytes, backing up to
// the start of the rune straddling the cut.
func truncateToRuneBoundary(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
