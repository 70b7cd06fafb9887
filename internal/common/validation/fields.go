// Package validation holds the pure field validators used by the profile
// wizard, plus schema checks for worker variables and wire payloads.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// PlaceholderPrefix marks the "nothing selected" option of select inputs.
const PlaceholderPrefix = "--"

// MinimumAge is the youngest age, in whole years, a profile may declare.
const MinimumAge = 18

var (
	mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	emailPattern  = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
	postalPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Accepted date-of-birth layouts, tried in order.
var birthDateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// IsBlank reports whether s is empty after trimming or is a placeholder value.
func IsBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(s, PlaceholderPrefix)
}

// StripSpaces removes every whitespace rune from s.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsValidMobileNumber accepts a 10 digit mobile number starting with 6-9.
// Whitespace anywhere in s is ignored.
func IsValidMobileNumber(s string) bool {
	return mobilePattern.MatchString(StripSpaces(s))
}

// IsValidEmail accepts an empty value; email is optional wherever it is collected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return emailPattern.MatchString(s)
}

// IsValidPostalCode accepts exactly six digits with a non-zero first digit.
func IsValidPostalCode(s string) bool {
	return postalPattern.MatchString(strings.TrimSpace(s))
}

// IsValidBirthDate is IsValidBirthDateAt evaluated against the current time.
func IsValidBirthDate(s string) bool {
	return IsValidBirthDateAt(s, time.Now())
}

// IsValidBirthDateAt reports whether s parses to a date that is not after now
// and lies at least MinimumAge years before it. Comparison is by UTC calendar day.
func IsValidBirthDateAt(s string, now time.Time) bool {
	dob, ok := ParseBirthDate(s)
	if !ok {
		return false
	}
	today := truncateDay(now)
	if dob.After(today) {
		return false
	}
	return !dob.AddDate(MinimumAge, 0, 0).After(today)
}

// ParseBirthDate parses s with the accepted layouts. RFC3339 timestamps are
// reduced to their date part.
func ParseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
