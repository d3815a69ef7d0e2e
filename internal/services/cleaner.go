package services

import (
	"regexp"
	"strings"
)

var (
	nonPrintable = regexp.MustCompile(`[^\x20-\x7E\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Clean keeps printable ASCII only, collapses whitespace runs (newlines included)
// to a single space and trims the ends. Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = nonPrintable.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
