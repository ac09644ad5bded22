package parser

// ExtractionRequestText is the user message sent alongside the document.
const ExtractionRequestText = "Extract information from invoice"

// BuildInvoicePrompt returns the extraction prompt for invoice documents.
func BuildInvoicePrompt() string {
	return `You are an expert document analysis system. Given the pages of a document, answer truthfully and accurately. When answering strictly follow the instructions and post-extraction instructions.

<instructions>
    Given the pages of a document, identify all properties specified in the json_schema from the provided pages.
    - Use the 'description' of each property to understand what the property means.
    - Do not add any preamble or conclusion to your responses, just provide the answer.
    - Extract the values from the document in the language present in the document. Do not translate the values.
    - The provided document may be written in English but may contain meanings specific to Spanish or Portuguese or French or Dutch.
    - Do not guess or make assumptions without evidence. If a particular property is not found leave it empty.
    - Always respond using the following json_schema and output only the JSON object.
    - Ignore information on pages with title 'Terms and Conditions' or 'Conditions of Sale'.
    - Only output JSON.
</instructions>

<json_schema>
{
    "type": "object",
    "properties": {
        "TotalInvoices": {"type": "number", "description": "Count the number of distinct invoices in the document provided."},
        "Language": {"type": "string", "description": "The dominant language of the invoice using ISO 3166-2."},
        "DocumentType": {"type": "string", "description": "The type of Document being one of the following options: 'INVO' for Invoice or 'CRME' for credit memo or 'PRFM' for Proforma or 'RCP' for Receipt or 'ORCF' for Order Confirmation or 'DLVN' for Delivery Note or 'NA' if none of the above."},
        "DocumentID": {"type": "string", "description": "Invoice Identifier that usually is defined as 'Invoice Number' or 'Facture' or 'Numero Factura' or 'Facture nº'."},
        "DocumentDate": {"type": "string", "description": "The invoice date in ISO 8601 format."},
        "VendorTaxID": {"type": "string", "description": "The vendor 'VAT Number' or 'V.A.T'."},
        "VendorName": {"type": "string", "description": "The vendor name. It can be also referred to as 'Seller' or 'Supplier'."},
        "VendorCountryCode": {"type": "string", "description": "The vendor country code."},
        "CustomerTaxID": {"type": "string", "description": "The customer 'VAT Number' or 'V.A.T'."},
        "CustomerName": {"type": "string", "description": "The customer name. It can also be referred to as 'Buyer'."},
        "CustomerCountryCode": {"type": "string", "description": "The customer country code."},
        "PONumber": {"type": "string", "description": "The purchase order number. PO"},
        "CurrencyCode": {"type": "string", "description": "The currency code of the invoice total. Use the ISO 4217 standard for currency codes."},
        "DocumentTotal": {"type": "number", "description": "The invoice total and only the total including VAT. Don't include the currency code in the invoice total."},
        "VATRate": {"type": "number", "description": "The VAT percentage rate."},
        "VATAmount": {"type": "number", "description": "The VAT amount."},
        "VATDocumentAmount": {"type": "number", "description": "The VAT amount."},
        "NetDocumentAmount": {"type": "number", "description": "The total invoice Net amount."},
        "TotalDocumentAmount": {"type": "number", "description": "The total invoice gross amount."}
    }
}
</json_schema>

<post-extraction instructions>
    - DocumentID cannot be the same as PONumber. Leave DocumentID blank.
</post-extraction instructions>`
}
