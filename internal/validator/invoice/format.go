package invoice

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"invoicedesk/internal/domain"
)

// dateLayouts are tried in order; the first that parses wins.
// Single-digit layout elements also accept two digits.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2006/1/2",
}

var errInvalidDate = errors.New("invalid date")

// ParseDate parses an invoice date in any of the accepted layouts, as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	return parseDateIn(raw, time.UTC)
}

func parseDateIn(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate
}

func dateFormatCheck() Check {
	return Check{
		Name: "format.date",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			if _, err := ParseDate(value); err != nil {
				return bad(domain.VerdictFormatInvalid, "invalid date")
			}
			return Good()
		},
	}
}

func currencyCheck(allowed []string) Check {
	set := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return Check{
		Name: "format.currency",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			if !set[strings.ToUpper(strings.TrimSpace(value))] {
				return warning(domain.VerdictUnrecognized, "unrecognized currency")
			}
			return Good()
		},
	}
}

// foldKey normalizes a label for case-insensitive comparison, so that
// "nota de crédito" written with a combining accent still matches.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func documentTypeCheck(allowed []string) Check {
	set := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		set[foldKey(t)] = true
	}
	return Check{
		Name: "format.document_type",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			if !set[foldKey(value)] {
				return warning(domain.VerdictUnrecognized, "unrecognized type")
			}
			return Good()
		},
	}
}

func amountFormatCheck() Check {
	return Check{
		Name: "format.amount",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			if _, err := ParseAmount(value); err != nil {
				return bad(domain.VerdictFormatInvalid, "invalid amount format")
			}
			return Good()
		},
	}
}

func taxIDCheck() Check {
	return Check{
		Name: "format.tax_id",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			digits := DigitsOnly(value)
			if len(digits) != 9 {
				return bad(domain.VerdictFormatInvalid, "tax ID must have 9 digits")
			}
			if !ValidNIF(digits) {
				return bad(domain.VerdictFormatInvalid, "invalid tax ID (check digit)")
			}
			return Good()
		},
	}
}
