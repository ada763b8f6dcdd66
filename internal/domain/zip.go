package domain

import (
	"fmt"
	"strings"
)

// NormalizeZip trims whitespace from a US ZIP code and strips an optional
// "+4" suffix, which must itself be four digits. The result is exactly five
// digits; leading zeros are kept, which is why ZIP codes are strings and
// never integers.
func NormalizeZip(s string) (string, error) {
	zip, plus4, hasPlus4 := strings.Cut(strings.TrimSpace(s), "-")
	if !allDigits(zip, 5) {
		return "", fmt.Errorf("%w: zip code must be 5 digits", ErrValidation)
	}
	if hasPlus4 && !allDigits(plus4, 4) {
		return "", fmt.Errorf("%w: zip+4 suffix must be 4 digits", ErrValidation)
	}
	return zip, nil
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
