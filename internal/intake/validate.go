package intake

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MinSizeSqm = 1
	MaxSizeSqm = 10000
)

// StandTypes are the product slugs a quote request may reference.
var StandTypes = []string{
	"modular",
	"custom",
	"wooden",
	"double-decker",
	"shell-scheme",
	"portable",
}

// BudgetRanges are the bucket labels offered on the quote form.
var BudgetRanges = []string{
	"under-10k",
	"10k-25k",
	"25k-50k",
	"50k-100k",
	"over-100k",
}

// Permissive local@domain.tld shape; only grossly malformed input is rejected.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ParseDate parses the date formats accepted on intake forms.
// Dates without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsFutureDate reports whether s parses as a date strictly after now.
func IsFutureDate(s string, now time.Time) bool {
	t, ok := ParseDate(s)
	if !ok {
		return false
	}
	return t.After(now)
}

// IsKnownStandType reports membership in StandTypes.
func IsKnownStandType(s string) bool {
	return contains(StandTypes, s)
}

// IsKnownBudgetRange reports membership in BudgetRanges.
func IsKnownBudgetRange(s string) bool {
	return contains(BudgetRanges, s)
}

// ParseSize parses a stand size in square metres. Only whole numbers parse.
func ParseSize(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsSizeInRange reports whether n is within [MinSizeSqm, MaxSizeSqm].
func IsSizeInRange(n int) bool {
	return n >= MinSizeSqm && n <= MaxSizeSqm
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
