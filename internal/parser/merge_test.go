package parser_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/parser"
	"invoicedesk/internal/port"
	"invoicedesk/mocks"
)

func payloadOutput(model, payload string) *port.ParseOutput {
	return &port.ParseOutput{Payload: json.RawMessage(payload), Provider: model, ModelUsed: model}
}

func TestMergeParser_BothSucceed(t *testing.T) {
	p1 := new(mocks.MockDocumentParser)
	p2 := new(mocks.MockDocumentParser)
	input := port.ParseInput{ContentType: "application/pdf"}

	p1.On("Parse", mock.Anything, input).Return(payloadOutput("adk",
		`{"DocumentID":"FT 1","VendorTaxID":"123456780","TotalDocumentAmount":"1.234,50","CustomerName":""}`), nil)
	p2.On("Parse", mock.Anything, input).Return(payloadOutput("gemini",
		`{"DocumentID":"FT 1","VendorTaxID":"500000000","TotalDocumentAmount":1234.5,"CustomerName":"Cliente SA"}`), nil)

	out, err := parser.NewMergeParser(p1, p2).Parse(context.Background(), input)
	require.NoError(t, err)

	var merged map[string]any
	require.NoError(t, json.Unmarshal(out.Payload, &merged))
	assert.Equal(t, "FT 1", merged["DocumentID"])
	assert.Equal(t, "500000000", merged["VendorTaxID"])
	assert.Equal(t, "Cliente SA", merged["CustomerName"])
	assert.Equal(t, "1.234,50", merged["TotalDocumentAmount"])

	assert.Equal(t, "agree", out.FieldProvenance["DocumentID"])
	assert.Equal(t, "secondary_format", out.FieldProvenance["VendorTaxID"])
	assert.Equal(t, "secondary", out.FieldProvenance["CustomerName"])
	assert.Equal(t, "agree", out.FieldProvenance["TotalDocumentAmount"])
	assert.Equal(t, "gemini", out.SecondaryModel)
}

func TestMergeParser_PrimaryFails(t *testing.T) {
	p1 := new(mocks.MockDocumentParser)
	p2 := new(mocks.MockDocumentParser)
	input := port.ParseInput{}
	p1.On("Parse", mock.Anything, input).Return(nil, errors.New("down"))
	p2.On("Parse", mock.Anything, input).Return(payloadOutput("gemini", `{}`), nil)

	out, err := parser.NewMergeParser(p1, p2).Parse(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "secondary_only", out.FieldProvenance["_source"])
}

func TestMergeParser_BothFail(t *testing.T) {
	p1 := new(mocks.MockDocumentParser)
	p2 := new(mocks.MockDocumentParser)
	input := port.ParseInput{}
	p1.On("Parse", mock.Anything, input).Return(nil, errors.New("a"))
	p2.On("Parse", mock.Anything, input).Return(nil, errors.New("b"))

	_, err := parser.NewMergeParser(p1, p2).Parse(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both parsers failed")
}

func TestMergeValue(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		p, s   any
		want   any
		source string
	}{
		{"equal strings", "VendorName", "ACME", "ACME", "ACME", "agree"},
		{"primary empty", "VendorName", nil, "ACME", "ACME", "secondary"},
		{"secondary empty", "VendorName", "ACME", "", "ACME", "primary"},
		{"date format decides", "DocumentDate", "March 3rd", "2024-03-03", "2024-03-03", "secondary_format"},
		{"primary date valid", "DocumentDate", "2024-03-03", "3rd March", "2024-03-03", "primary_format"},
		{"plain disagreement", "VendorName", "ACME", "Acme Corp", "ACME", "disagreement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := parser.MergeValue(tt.key, tt.p, tt.s)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.source, source)
		})
	}
}
