package patient

import (
	"strings"

	"github.com/xear/backend/internal/domain/shared"
)

// NormalizePhone canonicalizes Turkish phone numbers to +90XXXXXXXXXX.
// Accepts "0532 123 45 67", "05321234567", "+90 532 123 45 67",
// "90 532 123 4567" and "5321234567" style inputs.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "90"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}

	if len(digits) != 10 {
		return "", shared.NewDomainError("INVALID_PHONE", "Phone number must have 10 national digits")
	}
	if digits[0] == '0' {
		return "", shared.NewDomainError("INVALID_PHONE", "National number cannot start with zero")
	}
	return "+90" + digits, nil
}
