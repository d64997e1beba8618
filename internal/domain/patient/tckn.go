package patient

import (
	"github.com/xear/backend/internal/domain/shared"
)

// ValidateTCKN checks an 11-digit Turkish national identity number.
// Rules: digits only, first digit nonzero, 10th digit is
// ((d1+d3+d5+d7+d9)*7 - (d2+d4+d6+d8)) mod 10 and the 11th digit is
// the sum of the first ten mod 10.
func ValidateTCKN(tckn string) error {
	if len(tckn) != 11 {
		return shared.NewDomainError("INVALID_TCKN", "TCKN must be 11 digits")
	}
	var d [11]int
	for i, r := range tckn {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_TCKN", "TCKN must contain only digits")
		}
		d[i] = int(r - '0')
	}
	if d[0] == 0 {
		return shared.NewDomainError("INVALID_TCKN", "TCKN cannot start with zero")
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	check10 := ((odd*7 - even) % 10 + 10) % 10
	if d[9] != check10 {
		return shared.NewDomainError("INVALID_TCKN", "TCKN checksum failed")
	}

	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	if d[10] != sum%10 {
		return shared.NewDomainError("INVALID_TCKN", "TCKN checksum failed")
	}
	return nil
}
