package scrapers

import (
	"regexp"
	"strings"
)

var (
	nonLetterExpr  = regexp.MustCompile(`[^a-z\s]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// CleanText normalizes raw article text for analysis: lowercase, strip
// punctuation/digits/special characters, collapse whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = nonLetterExpr.ReplaceAllString(text, "")
	text = whitespaceExpr.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
