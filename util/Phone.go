package util

import "strings"

// PhoneDigits is the length of a national number accepted by the signup form
const PhoneDigits = 10

// DigitsOnly strips everything except ASCII digits
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// E164 builds the provider destination, e.g. ("91", "98765 43210") -> "+919876543210"
func E164(countryCode, phone string) string {
	return "+" + DigitsOnly(countryCode) + DigitsOnly(phone)
}

// MaskPhone renders the number the way the code-entry card shows it: +91-98XXX 3210
func MaskPhone(countryCode, phone string) string {
	digits := DigitsOnly(phone)
	if len(digits) < 6 {
		return "+" + DigitsOnly(countryCode) + "-" + digits
	}
	return "+" + DigitsOnly(countryCode) + "-" + digits[:2] + "XXX " + digits[len(digits)-4:]
}
