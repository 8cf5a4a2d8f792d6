package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// runes. A maxLen of zero disables the cap. Truncation counts runes, not
// bytes, so a multi-byte character at the cap is kept whole or dropped, never
// split.
func SanitizeString(input string, maxLen int) string {
	clean := strings.TrimSpace(input)
	if maxLen <= 0 {
		return clean
	}
	runes := []rune(clean)
	if len(runes) > maxLen {
		clean = string(runes[:maxLen])
	}
	return clean
}
