package invoice

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const currencySymbols = "€$£¥"

// Amounts beyond these digit counts are rejected before any arithmetic.
const (
	maxIntegerDigits  = 30
	maxFractionDigits = 18
)

var (
	errEmptyAmount   = errors.New("empty amount")
	errInvalidAmount = errors.New("invalid amount")
)

// ParseAmount normalizes a monetary string and parses it as a decimal.
//
// Currency symbols and all Unicode whitespace are dropped. When both ',' and '.'
// appear, the right-most one is the decimal separator and the other groups
// thousands. A single ',' is a decimal separator; a separator that repeats is a
// grouping separator. Exponent notation is not accepted.
func ParseAmount(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r) {
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	if !plainDecimal(s) {
		return decimal.Zero, errInvalidAmount
	}
	return decimal.NewFromString(s)
}

// plainDecimal reports whether s is an optional '-' followed by digits with at
// most one '.', within the digit limits.
func plainDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return false
	}
	if len(intPart) > maxIntegerDigits || len(fracPart) > maxFractionDigits {
		return false
	}
	for _, part := range []string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}
