// Package sanitize normalises free-text input before storage. Every
// free-text field in an accepted application passes through Clean;
// sanitisation is uniform, never selective per field.
package sanitize

import (
	"html"
	"strings"
	"unicode"
)

// Clean trims surrounding whitespace, removes backslash escaping and
// control characters, and escapes markup-significant characters
// (including quotes) so stored values are inert when rendered.
func Clean(value string) string {
	value = strings.TrimSpace(value)
	value = stripSlashes(value)
	value = stripControl(value)
	return escapeMarkup(value)
}

// stripSlashes removes one level of backslash escaping: `\x` becomes
// `x` and `\\` becomes `\`.
func stripSlashes(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	escaped := false
	for _, r := range value {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripControl drops control characters but keeps newlines and tabs,
// which are legitimate in the narrative fields.
func stripControl(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}

// escapeMarkup escapes <, >, &, ' and ".
func escapeMarkup(value string) string {
	return html.EscapeString(value)
}
