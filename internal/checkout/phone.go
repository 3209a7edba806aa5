package checkout

import (
	"strings"
	"unicode"
)

// DefaultPhone receives orders when no checkout number is configured.
const DefaultPhone = "6281234567890"

// NormalizePhone strips everything but digits and prefixes countryCode unless the
// number already starts with it. An empty result falls back to DefaultPhone.
func NormalizePhone(raw, countryCode string) string {
	digits := digitsOnly(raw)
	if digits == "" {
		return DefaultPhone
	}
	prefix := digitsOnly(countryCode)
	if prefix == "" || strings.HasPrefix(digits, prefix) {
		return digits
	}
	return prefix + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
