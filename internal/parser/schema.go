package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PayloadProperties lists every property the extraction prompt asks for.
var PayloadProperties = []string{
	"TotalInvoices",
	"Language",
	"DocumentType",
	"DocumentID",
	"DocumentDate",
	"VendorTaxID",
	"VendorName",
	"VendorCountryCode",
	"CustomerTaxID",
	"CustomerName",
	"CustomerCountryCode",
	"PONumber",
	"CurrencyCode",
	"DocumentTotal",
	"VATRate",
	"VATAmount",
	"VATDocumentAmount",
	"NetDocumentAmount",
	"TotalDocumentAmount",
}

// payloadSchema accepts scalars for every known property. Models drift between
// strings and numbers, so both are allowed; nested values are not.
func payloadSchema() map[string]any {
	props := make(map[string]any, len(PayloadProperties))
	for _, p := range PayloadProperties {
		props[p] = map[string]any{"type": []string{"string", "number", "boolean", "null"}}
	}
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
	}
}

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

func schema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		b, err := json.Marshal(payloadSchema())
		if err != nil {
			compiledSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = compiler.Compile("extraction.json")
	})
	return compiledSchema, compiledSchemaErr
}

// ValidatePayload checks that data is a JSON object matching the extraction schema.
func ValidatePayload(data []byte) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
