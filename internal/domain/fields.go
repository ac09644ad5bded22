package domain

import "strings"

// FieldName is one of the fixed invoice fields the validator recognizes.
type FieldName string

const (
	FieldDocumentType        FieldName = "DocumentType"
	FieldDocumentID          FieldName = "DocumentID"
	FieldDocumentDate        FieldName = "DocumentDate"
	FieldLanguage            FieldName = "Language"
	FieldCurrencyCode        FieldName = "CurrencyCode"
	FieldTotalDocumentAmount FieldName = "TotalDocumentAmount"
	FieldNetDocumentAmount   FieldName = "NetDocumentAmount"
	FieldVATAmount           FieldName = "VATAmount"
	FieldVendorName          FieldName = "VendorName"
	FieldVendorTaxID         FieldName = "VendorTaxID"
	FieldVendorCountryCode   FieldName = "VendorCountryCode"
	FieldCustomerName        FieldName = "CustomerName"
	FieldCustomerTaxID       FieldName = "CustomerTaxID"
	FieldCustomerCountryCode FieldName = "CustomerCountryCode"
)

// AllFields lists the recognized fields in display order.
var AllFields = []FieldName{
	FieldDocumentType,
	FieldDocumentID,
	FieldDocumentDate,
	FieldLanguage,
	FieldCurrencyCode,
	FieldTotalDocumentAmount,
	FieldNetDocumentAmount,
	FieldVATAmount,
	FieldVendorName,
	FieldVendorTaxID,
	FieldVendorCountryCode,
	FieldCustomerName,
	FieldCustomerTaxID,
	FieldCustomerCountryCode,
}

// fieldLabels holds the Portuguese labels shown to reviewers and used as export keys.
var fieldLabels = map[FieldName]string{
	FieldDocumentType:        "Tipo de Documento",
	FieldDocumentID:          "ID/Número da Fatura",
	FieldDocumentDate:        "Data da Fatura",
	FieldLanguage:            "Idioma",
	FieldCurrencyCode:        "Código da Moeda",
	FieldTotalDocumentAmount: "Valor Total",
	FieldNetDocumentAmount:   "Valor Líquido (sem IVA)",
	FieldVATAmount:           "Valor do IVA",
	FieldVendorName:          "Nome do Fornecedor",
	FieldVendorTaxID:         "NIF do Fornecedor",
	FieldVendorCountryCode:   "País do Fornecedor",
	FieldCustomerName:        "Nome do Cliente",
	FieldCustomerTaxID:       "NIF do Cliente",
	FieldCustomerCountryCode: "País do Cliente",
}

// Label returns the reviewer-facing label of the field.
func (f FieldName) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// IsKnown reports whether f belongs to the recognized enumeration.
func (f FieldName) IsKnown() bool {
	_, ok := fieldLabels[f]
	return ok
}

// FieldSet maps field names to raw extracted values. Absent keys read as "".
type FieldSet map[FieldName]string

// Get returns the raw value for name, or "" when absent.
func (fs FieldSet) Get(name FieldName) string {
	if fs == nil {
		return ""
	}
	return fs[name]
}

// Has reports whether name carries a non-blank value.
func (fs FieldSet) Has(name FieldName) bool {
	return strings.TrimSpace(fs.Get(name)) != ""
}

// Clone returns a copy holding only the recognized fields.
func (fs FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(AllFields))
	for _, f := range AllFields {
		out[f] = fs.Get(f)
	}
	return out
}

// FieldSetFromMap builds a FieldSet from an untyped map, dropping unknown keys.
func FieldSetFromMap(m map[string]string) FieldSet {
	out := make(FieldSet, len(AllFields))
	for _, f := range AllFields {
		out[f] = m[string(f)]
	}
	return out
}

// Verdict is the validation outcome of a single field.
type Verdict struct {
	Severity Severity    `json:"severity"`
	Code     VerdictCode `json:"code"`
	Message  string      `json:"message"`
}

// ValidationReport holds exactly one verdict per recognized field.
type ValidationReport map[FieldName]Verdict
