package invoice

import "strings"

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ValidNIF reports whether a 9-digit Portuguese tax number carries a correct
// check digit (mod 11, weights 9..2).
func ValidNIF(digits string) bool {
	if len(digits) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 8; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * (9 - i)
	}
	last := digits[8]
	if last < '0' || last > '9' {
		return false
	}
	check := 0
	if r := sum % 11; r >= 2 {
		check = 11 - r
	}
	return int(last-'0') == check
}
