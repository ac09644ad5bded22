package parser_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/parser"
)

func TestExtractJSONObject(t *testing.T) {
	got, err := parser.ExtractJSONObject("```json\n{\"a\": {\"b\": 1}}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	_, err = parser.ExtractJSONObject("no object here")
	assert.ErrorIs(t, err, parser.ErrNoJSONObject)

	_, err = parser.ExtractJSONObject("} backwards {")
	assert.ErrorIs(t, err, parser.ErrNoJSONObject)
}

func TestDecodePayload(t *testing.T) {
	raw := []byte(`{
		"TotalInvoices": 1,
		"Language": "PT",
		"DocumentType": "INVO",
		"DocumentID": "FT 2024/118",
		"DocumentDate": "2024-05-10",
		"VendorTaxID": "PT 123456789",
		"VendorName": "Fornecedor, Lda",
		"CustomerName": null,
		"CurrencyCode": "EUR",
		"NetDocumentAmount": 100,
		"VATAmount": 23.00,
		"TotalDocumentAmount": "123.00",
		"PONumber": "PO-77"
	}`)

	ext, err := parser.DecodePayload(raw)
	require.NoError(t, err)

	assert.Equal(t, "Invoice", ext.Fields.Get(domain.FieldDocumentType))
	assert.Equal(t, "FT 2024/118", ext.Fields.Get(domain.FieldDocumentID))
	assert.Equal(t, "", ext.Fields.Get(domain.FieldCustomerName))
	assert.Equal(t, "100", ext.Fields.Get(domain.FieldNetDocumentAmount))
	assert.Equal(t, "23.00", ext.Fields.Get(domain.FieldVATAmount))
	assert.Equal(t, "123.00", ext.Fields.Get(domain.FieldTotalDocumentAmount))
	assert.Len(t, ext.Fields, len(domain.AllFields))

	assert.Equal(t, "PO-77", ext.Extras["PONumber"])
	assert.Equal(t, "1", ext.Extras["TotalInvoices"])
	assert.Equal(t, "", ext.Extras["VATRate"])
}

func TestDecodePayload_DocumentIDEchoesPONumber(t *testing.T) {
	ext, err := parser.DecodePayload([]byte(`{"DocumentID":"PO-1","PONumber":"PO-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "", ext.Fields.Get(domain.FieldDocumentID))
}

func TestDecodePayload_ExponentNumbers(t *testing.T) {
	ext, err := parser.DecodePayload([]byte(`{"NetDocumentAmount":1.2e3,"TotalDocumentAmount":1e50000000}`))
	require.NoError(t, err)
	assert.Equal(t, "1200", ext.Fields.Get(domain.FieldNetDocumentAmount))
	assert.Equal(t, "1e50000000", ext.Fields.Get(domain.FieldTotalDocumentAmount))
}

func TestDecodePayload_RejectsNestedValues(t *testing.T) {
	_, err := parser.DecodePayload([]byte(`{"VendorName":{"first":"A"}}`))
	assert.Error(t, err)

	_, err = parser.DecodePayload([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = parser.DecodePayload([]byte(`not json`))
	assert.Error(t, err)
}

func TestMapDocumentType(t *testing.T) {
	assert.Equal(t, "Credit Note", parser.MapDocumentType("crme"))
	assert.Equal(t, "Delivery Note", parser.MapDocumentType(" DLVN "))
	assert.Equal(t, "", parser.MapDocumentType("NA"))
	assert.Equal(t, "Fatura", parser.MapDocumentType("Fatura"))
}

func TestStatusError(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"12"}}}
	wait, ok := parser.RetryAfter(parser.StatusError("gemini", resp, []byte("slow down")))
	require.True(t, ok)
	assert.Equal(t, 12*time.Second, wait)

	resp = &http.Response{StatusCode: http.StatusInternalServerError, Header: http.Header{}}
	err := parser.StatusError("gemini", resp, []byte("boom"))
	_, ok = parser.RetryAfter(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "status 500")
}

func TestNewRateLimitError_DefaultWait(t *testing.T) {
	err := parser.NewRateLimitError("adk", nil, 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, 0, parser.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestBuildInvoicePrompt_ListsEveryProperty(t *testing.T) {
	prompt := parser.BuildInvoicePrompt()
	for _, p := range parser.PayloadProperties {
		assert.Contains(t, prompt, `"`+p+`"`)
	}
}
