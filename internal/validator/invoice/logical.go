package invoice

import (
	"time"

	"invoicedesk/internal/domain"
)

func dateRangeCheck(now func() time.Time, maxAgeDays int) Check {
	return Check{
		Name: "logic.date_range",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			current := now()
			parsed, err := parseDateIn(value, current.Location())
			if err != nil {
				return bad(domain.VerdictFormatInvalid, "invalid date")
			}
			if parsed.After(current) {
				return warning(domain.VerdictFutureDated, "future date")
			}
			if calendarDaysBetween(parsed, current) > maxAgeDays {
				return warning(domain.VerdictStale, "date too old")
			}
			return Good()
		},
	}
}

// calendarDaysBetween counts whole calendar days from from to to in to's
// location, so daylight-saving shifts do not move the boundary.
func calendarDaysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func amountRangeCheck() Check {
	return Check{
		Name: "logic.amount_range",
		Run: func(value string, _ domain.FieldSet) domain.Verdict {
			amount, err := ParseAmount(value)
			if err != nil {
				return bad(domain.VerdictFormatInvalid, "invalid amount format")
			}
			switch {
			case amount.IsNegative():
				return bad(domain.VerdictOutOfRange, "negative not allowed")
			case amount.IsZero():
				return warning(domain.VerdictOutOfRange, "zero value")
			}
			return Good()
		},
	}
}
