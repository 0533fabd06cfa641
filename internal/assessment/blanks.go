package assessment

import (
	"regexp"
	"strings"
)

var blankMarker = regexp.MustCompile(`\[([^\[\]]*)\]`)

// blankWords extracts the bracketed words from a fill-in-blanks source
// text, in order of appearance.
func blankWords(text string) []string {
	matches := blankMarker.FindAllStringSubmatch(text, -1)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, m[1])
	}
	return words
}

// countBlanks returns the number of bracketed markers in text.
func countBlanks(text string) int {
	return len(blankMarker.FindAllStringIndex(text, -1))
}

// maskBlanks replaces every bracketed marker with a fixed-width gap for
// the learner presentation, so the answer words never leave the server.
func maskBlanks(text string) string {
	return blankMarker.ReplaceAllString(text, "____")
}

// unwrapBlank removes the n-th (0-based) marker's brackets, turning the
// blank back into plain text. Used when an authored blank is deleted.
func unwrapBlank(text string, n int) string {
	count := -1
	return blankMarker.ReplaceAllStringFunc(text, func(m string) string {
		count++
		if count == n {
			return strings.Trim(m, "[]")
		}
		return m
	})
}
