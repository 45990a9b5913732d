package intake

import "strings"

// Sanitize trims surrounding whitespace and truncates to maxLen runes.
// It does not escape anything; storage uses parameterized queries.
func Sanitize(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if maxLen <= 0 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// SanitizeOptional applies Sanitize to an optional field. Nil and
// whitespace-only values come back as nil.
func SanitizeOptional(s *string, maxLen int) *string {
	if s == nil {
		return nil
	}
	clean := Sanitize(*s, maxLen)
	if clean == "" {
		return nil
	}
	return &clean
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Present reports whether an optional field carries a non-blank value.
func Present(s *string) bool {
	return s != nil && !Blank(*s)
}
