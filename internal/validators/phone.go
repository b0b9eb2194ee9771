package validators

import "strings"

// NormalizePhone strips the formatting characters people type into phone
// numbers, keeping a leading '+' when present.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			return ""
		}
	}
	return b.String()
}

// IsPhoneNumber reports whether s looks like a dialable number:
// an optional '+' followed by 7 to 15 digits once formatting is removed.
func IsPhoneNumber(s string) bool {
	n := NormalizePhone(s)
	digits := strings.TrimPrefix(n, "+")
	return len(digits) >= 7 && len(digits) <= 15
}
