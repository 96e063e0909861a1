// utils/phone.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone number to a bare digit string: every
// non-digit character is dropped, then leading zeros are stripped.
// Garbage input yields "", never an error.
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	return strings.TrimLeft(digits, "0")
}

// ValidatePhone checks a normalized number is plausible: 8 to 15
// digits, not starting with zero.
func ValidatePhone(phone string) bool {
	match, _ := regexp.MatchString(`^[1-9]\d{7,14}$`, phone)
	return match
}
