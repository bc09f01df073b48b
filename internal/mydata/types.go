package mydata

import "encoding/xml"

// InvoiceNamespace qualifies every element of a RequestDocs response.
const InvoiceNamespace = "http://www.aade.gr/myDATA/invoice/v1.0"

// RequestedDoc is the root element of one RequestDocs response page.
type RequestedDoc struct {
	XMLName           xml.Name           `xml:"RequestedDoc"`
	ContinuationToken *ContinuationToken `xml:"continuationToken"`
	InvoicesDoc       *InvoicesDoc       `xml:"invoicesDoc"`
}

// ContinuationToken marks that more pages of results remain. The API only
// continues when both keys are returned, so a token with either key empty
// terminates pagination.
type ContinuationToken struct {
	NextPartitionKey string `xml:"nextPartitionKey"`
	NextRowKey       string `xml:"nextRowKey"`
}

// HasMore reports whether the token points at a further page.
func (t *ContinuationToken) HasMore() bool {
	return t != nil && t.NextPartitionKey != "" && t.NextRowKey != ""
}

// InvoicesDoc wraps the invoice documents of one page.
type InvoicesDoc struct {
	Invoices []InvoiceDoc `xml:"invoice"`
}

// InvoiceDoc is one invoice document with its issuer metadata, header
// and line items.
type InvoiceDoc struct {
	Issuer  *Issuer         `xml:"issuer"`
	Header  *InvoiceHeader  `xml:"invoiceHeader"`
	Details []InvoiceDetail `xml:"invoiceDetails"`
}

// Issuer identifies the party that issued an invoice.
type Issuer struct {
	VATNumber string `xml:"vatNumber"`
	Name      string `xml:"name"`
}

// InvoiceHeader carries invoice-level fields; only the issue date is used.
type InvoiceHeader struct {
	IssueDate string `xml:"issueDate"`
}

// InvoiceDetail is a single line item.
type InvoiceDetail struct {
	ItemDescr string `xml:"itemDescr"`
	Quantity  string `xml:"quantity"`
}
