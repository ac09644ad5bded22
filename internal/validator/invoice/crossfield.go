package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/domain"
)

func fmtAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// totalConsistencyCheck compares the total with net + VAT. It is skipped when
// either sibling is empty or does not parse.
func totalConsistencyCheck(tolerance decimal.Decimal) Check {
	return Check{
		Name: "crossfield.total_matches_net_plus_vat",
		Run: func(value string, fields domain.FieldSet) domain.Verdict {
			total, err := ParseAmount(value)
			if err != nil {
				return bad(domain.VerdictFormatInvalid, "invalid amount format")
			}
			net, err := ParseAmount(fields.Get(domain.FieldNetDocumentAmount))
			if err != nil {
				return Good()
			}
			vat, err := ParseAmount(fields.Get(domain.FieldVATAmount))
			if err != nil {
				return Good()
			}
			expected := net.Add(vat)
			if total.Sub(expected).Abs().GreaterThan(tolerance) {
				return warning(domain.VerdictInconsistent, fmt.Sprintf(
					"total mismatch, expected %s + %s = %s",
					fmtAmount(net), fmtAmount(vat), fmtAmount(expected),
				))
			}
			return Good()
		},
	}
}
