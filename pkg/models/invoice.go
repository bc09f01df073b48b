package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRecord is one line item extracted from a myDATA invoice document.
// Records are immutable once built; stages that adjust dates copy the record
// instead of mutating it.
type InvoiceRecord struct {
	// Issuer (the supplier/vendor who issued the invoice)
	IssuerName string // Display name as reported by the API
	IssuerVAT  string // VAT number (ΑΦΜ) of the issuer, may be empty

	// Line item
	ItemDescr string          // Item description from invoiceDetails
	IssueDate time.Time       // Invoice issue date, UTC midnight
	Quantity  decimal.Decimal // Quantity for this line item
}

// ShiftDate returns a copy of the record with the issue date moved by the
// given number of days. Calendar arithmetic, so month and year boundaries
// roll over correctly.
func (r InvoiceRecord) ShiftDate(days int) InvoiceRecord {
	if days == 0 {
		return r
	}
	shifted := r
	shifted.IssueDate = r.IssueDate.AddDate(0, 0, days)
	return shifted
}
