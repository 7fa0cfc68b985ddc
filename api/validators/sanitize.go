package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims surrounding whitespace and truncates to maxLen runes.
func SanitizeString(input string, maxLen int) string {
	s := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLen]))
}
