package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"invoicedesk/internal/port"
	"invoicedesk/internal/validator/invoice"
)

// formatChecks decide disagreements: a value passing the check beats one that does not.
var formatChecks = map[string]func(string) bool{
	"VendorTaxID":   func(v string) bool { return invoice.ValidNIF(invoice.DigitsOnly(v)) },
	"CustomerTaxID": func(v string) bool { return invoice.ValidNIF(invoice.DigitsOnly(v)) },
	"DocumentDate": func(v string) bool {
		_, err := invoice.ParseDate(v)
		return err == nil
	},
}

// MergeParser runs two DocumentParsers in parallel and merges their payloads
// property by property.
type MergeParser struct {
	primary   port.DocumentParser
	secondary port.DocumentParser
}

// NewMergeParser creates a MergeParser from primary and secondary parsers.
func NewMergeParser(primary, secondary port.DocumentParser) *MergeParser {
	return &MergeParser{primary: primary, secondary: secondary}
}

func (m *MergeParser) Parse(ctx context.Context, input port.ParseInput) (*port.ParseOutput, error) {
	type result struct {
		output *port.ParseOutput
		err    error
	}

	var wg sync.WaitGroup
	var pResult, sResult result

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := m.primary.Parse(ctx, input)
		pResult = result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := m.secondary.Parse(ctx, input)
		sResult = result{out, err}
	}()
	wg.Wait()

	if pResult.err != nil && sResult.err != nil {
		return nil, fmt.Errorf("both parsers failed: primary: %v; secondary: %v", pResult.err, sResult.err)
	}

	if pResult.err != nil {
		log.Printf("parser.MergeParser: primary parser failed (%v), using secondary only", pResult.err)
		sResult.output.FieldProvenance = map[string]string{"_source": "secondary_only"}
		sResult.output.SecondaryModel = sResult.output.ModelUsed
		return sResult.output, nil
	}

	if sResult.err != nil {
		log.Printf("parser.MergeParser: secondary parser failed (%v), using primary only", sResult.err)
		pResult.output.FieldProvenance = map[string]string{"_source": "primary_only"}
		return pResult.output, nil
	}

	return mergeOutputs(pResult.output, sResult.output), nil
}

func mergeOutputs(primary, secondary *port.ParseOutput) *port.ParseOutput {
	var pData, sData map[string]any
	if err := json.Unmarshal(primary.Payload, &pData); err != nil {
		return primary
	}
	if err := json.Unmarshal(secondary.Payload, &sData); err != nil {
		return primary
	}
	if pData == nil {
		pData = map[string]any{}
	}

	provenance := make(map[string]string, len(PayloadProperties))
	for _, key := range PayloadProperties {
		pVal, sVal := pData[key], sData[key]
		chosen, source := mergeValue(key, pVal, sVal)
		if chosen != nil {
			pData[key] = chosen
		}
		provenance[key] = source
	}

	merged, err := json.Marshal(pData)
	if err != nil {
		return primary
	}

	return &port.ParseOutput{
		Payload:         merged,
		Provider:        primary.Provider,
		ModelUsed:       primary.ModelUsed,
		PromptUsed:      primary.PromptUsed,
		FieldProvenance: provenance,
		SecondaryModel:  secondary.ModelUsed,
	}
}

// mergeValue picks between two extracted values and names where the result came from.
func mergeValue(key string, pVal, sVal any) (any, string) {
	p, s := stringify(pVal), stringify(sVal)
	pEmpty, sEmpty := strings.TrimSpace(p) == "", strings.TrimSpace(s) == ""

	switch {
	case p == s:
		return pVal, "agree"
	case pEmpty && !sEmpty:
		return sVal, "secondary"
	case sEmpty:
		return pVal, "primary"
	}

	if check, ok := formatChecks[key]; ok {
		pOK, sOK := check(p), check(s)
		if sOK && !pOK {
			return sVal, "secondary_format"
		}
		if pOK && !sOK {
			return pVal, "primary_format"
		}
	}

	// Amounts written differently may still be the same number.
	if pa, err := invoice.ParseAmount(p); err == nil {
		if sa, err := invoice.ParseAmount(s); err == nil && pa.Equal(sa) {
			return pVal, "agree"
		}
	}

	return pVal, "disagreement"
}
