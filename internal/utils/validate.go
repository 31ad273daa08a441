package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// ValidatePhone accepts 11-digit numbers starting with 7 or 8, with any
// punctuation in between.
func ValidatePhone(phone string) bool {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) != 11 {
		return false
	}
	return digits[0] == '7' || digits[0] == '8'
}

// FormatPhone normalizes a valid phone number to +7 (XXX) XXX-XX-XX form.
func FormatPhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) != 11 {
		return phone
	}
	if digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	return fmt.Sprintf("+%c (%s) %s-%s-%s", digits[0], digits[1:4], digits[4:7], digits[7:9], digits[9:11])
}

// ValidateCardNumber accepts 16-digit card numbers.
func ValidateCardNumber(card string) bool {
	return len(nonDigits.ReplaceAllString(card, "")) == 16
}

// MaskCardNumber keeps only the last four digits visible.
func MaskCardNumber(card string) string {
	digits := nonDigits.ReplaceAllString(card, "")
	if len(digits) != 16 {
		return card
	}
	return "**** **** **** " + digits[12:]
}

// NormalizeRole lowercases and trims a role string.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
