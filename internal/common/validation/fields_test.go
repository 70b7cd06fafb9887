package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMobileNumber(t *testing.T) {
	for first := 0; first <= 9; first++ {
		num := fmt.Sprintf("%d876543210", first)
		assert.Equal(t, first >= 6, IsValidMobileNumber(num), num)
	}

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"spaces are ignored", "98765 43210", true},
		{"surrounding whitespace", "  9876543210\t", true},
		{"nine digits", "987654321", false},
		{"eleven digits", "98765432101", false},
		{"country code", "+919876543210", false},
		{"letters", "98765abcde", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMobileNumber(tt.input))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"seeker@example.com", true},
		{"first.last+jobs@mail.example.co.in", true},
		{"no-at-sign.example.com", false},
		{"user@domain", false},
		{"user@.com", false},
		{"user name@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.input))
		})
	}
}

func TestIsValidPostalCode(t *testing.T) {
	assert.True(t, IsValidPostalCode("110001"))
	assert.True(t, IsValidPostalCode("800001"))
	assert.False(t, IsValidPostalCode("000000"))
	assert.False(t, IsValidPostalCode("012345"))
	assert.False(t, IsValidPostalCode("12345"))
	assert.False(t, IsValidPostalCode("1234567"))
	assert.False(t, IsValidPostalCode("11000a"))
	assert.False(t, IsValidPostalCode(""))
}

func TestIsValidBirthDateAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exactly eighteen years", "2006-06-15", true},
		{"one day short of eighteen", "2006-06-16", false},
		{"well over eighteen", "1990-01-01", true},
		{"day-first layout", "15-06-2006", true},
		{"slash layout", "15/06/2000", true},
		{"timestamp uses the date part", "2000-03-04T18:30:00Z", true},
		{"future date", "2030-01-01", false},
		{"today", "2024-06-15", false},
		{"empty", "", false},
		{"garbage", "not-a-date", false},
		{"impossible date", "2001-02-30", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidBirthDateAt(tt.input, now))
		})
	}
}

func TestIsValidBirthDate_RelativeToNow(t *testing.T) {
	now := time.Now().UTC()
	adult := now.AddDate(-18, 0, 0).Format("2006-01-02")
	almost := now.AddDate(-18, 0, 1).Format("2006-01-02")

	assert.True(t, IsValidBirthDate(adult))
	assert.False(t, IsValidBirthDate(almost))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("--Select--"))
	assert.True(t, IsBlank("  -- choose state"))
	assert.False(t, IsBlank("Bihar"))
	assert.False(t, IsBlank("-500"))
}
