package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/domain"
)

// ErrNoJSONObject is returned when a model reply contains no JSON object.
var ErrNoJSONObject = errors.New("no JSON object in model output")

// ExtraProperties are extracted and stored but not validated.
var ExtraProperties = []string{
	"DocumentTotal",
	"VATRate",
	"PONumber",
	"TotalInvoices",
	"VATDocumentAmount",
}

// documentTypeCodes maps the agent's document-type codes to display names.
var documentTypeCodes = map[string]string{
	"INVO": "Invoice",
	"CRME": "Credit Note",
	"RCP":  "Receipt",
	"PRFM": "Proforma",
	"ORCF": "Order Confirmation",
	"DLVN": "Delivery Note",
	"NA":   "",
}

// Extraction is a decoded payload split into validated fields and extras.
type Extraction struct {
	Fields domain.FieldSet
	Extras map[string]string
}

// ExtractJSONObject cuts the text from the first '{' to the last '}'.
// Models often wrap the object in code fences or prose.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: %s", ErrNoJSONObject, truncate(text, 200))
	}
	return text[start : end+1], nil
}

// DecodePayload validates a raw extraction payload and converts every value to
// its string form: numbers keep their literal digits, null becomes "".
func DecodePayload(raw []byte) (*Extraction, error) {
	if err := ValidatePayload(raw); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	values := make(map[string]string, len(obj))
	for k, v := range obj {
		values[k] = stringify(v)
	}
	values["DocumentType"] = MapDocumentType(values["DocumentType"])

	// A purchase-order number echoed as the document ID is not an ID.
	if id := strings.TrimSpace(values["DocumentID"]); id != "" && id == strings.TrimSpace(values["PONumber"]) {
		values["DocumentID"] = ""
	}

	ext := &Extraction{
		Fields: domain.FieldSetFromMap(values),
		Extras: make(map[string]string, len(ExtraProperties)),
	}
	for _, k := range ExtraProperties {
		ext.Extras[k] = values[k]
	}
	return ext, nil
}

// MapDocumentType turns an agent code such as "INVO" into its display name.
// Values that are not codes are returned unchanged.
func MapDocumentType(v string) string {
	if name, ok := documentTypeCodes[strings.ToUpper(strings.TrimSpace(v))]; ok {
		return name
	}
	return v
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return plainNumber(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// plainNumber rewrites exponent notation such as 1.2e3 as plain digits when
// the exponent is small; anything else is kept verbatim.
func plainNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, "eE") {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() < -18 || d.Exponent() > 18 {
		return s
	}
	return d.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
