package mydata

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mydata-tools/internal/logger"
	"mydata-tools/pkg/models"
)

// issueDateLayout is the date form used by myDATA invoice headers.
const issueDateLayout = "2006-01-02"

// Page is the parsed form of one RequestDocs response page.
type Page struct {
	// Records are the line items successfully extracted from the page.
	Records []models.InvoiceRecord

	// Skipped counts line items dropped because a required field was
	// missing or unparsable.
	Skipped int

	// Token is the continuation token of the page, nil when absent.
	Token *ContinuationToken
}

// HasMore reports whether the page points at a further page of results.
func (p *Page) HasMore() bool {
	return p.Token.HasMore()
}

// ParsePage decodes one raw response page and extracts its invoice line
// items. A malformed document fails the whole page; a malformed line item
// only skips that item, with a diagnostic identifying it.
func ParsePage(data []byte) (*Page, error) {
	const op = "ParsePage"
	log := logger.WithComponent("mydata-parser")

	var doc RequestedDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}

	page := &Page{Token: doc.ContinuationToken}
	if doc.InvoicesDoc == nil {
		return page, nil
	}

	for i, inv := range doc.InvoicesDoc.Invoices {
		issuerName, issuerVAT, issueDate, err := invoiceFields(inv)
		if err != nil {
			// The whole document is unusable without issuer and date,
			// so every line item under it is skipped.
			n := len(inv.Details)
			if n == 0 {
				n = 1
			}
			page.Skipped += n
			log.Warn().
				Int("invoice", i+1).
				Err(err).
				Msg("Skipping invoice document")
			continue
		}

		for j, detail := range inv.Details {
			rec, err := lineItemRecord(issuerName, issuerVAT, issueDate, detail)
			if err != nil {
				page.Skipped++
				log.Warn().
					Int("invoice", i+1).
					Int("line_item", j+1).
					Str("issuer", issuerName).
					Err(err).
					Msg("Skipping invoice line item")
				continue
			}
			page.Records = append(page.Records, rec)
		}
	}

	return page, nil
}

// invoiceFields extracts and validates the invoice-level fields shared by
// every line item of the document.
func invoiceFields(inv InvoiceDoc) (name, vat string, date time.Time, err error) {
	if inv.Issuer == nil {
		return "", "", time.Time{}, fmt.Errorf("missing issuer")
	}
	name = strings.TrimSpace(inv.Issuer.Name)
	if name == "" {
		return "", "", time.Time{}, fmt.Errorf("missing issuer name")
	}
	vat = strings.TrimSpace(inv.Issuer.VATNumber)

	if inv.Header == nil {
		return "", "", time.Time{}, fmt.Errorf("missing invoice header")
	}
	raw := strings.TrimSpace(inv.Header.IssueDate)
	if raw == "" {
		return "", "", time.Time{}, fmt.Errorf("missing issue date")
	}
	date, err = time.ParseInLocation(issueDateLayout, raw, time.UTC)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid issue date %q: %w", raw, err)
	}

	return name, vat, date, nil
}

// lineItemRecord builds an InvoiceRecord from one line item.
func lineItemRecord(name, vat string, date time.Time, detail InvoiceDetail) (models.InvoiceRecord, error) {
	descr := strings.TrimSpace(detail.ItemDescr)
	if descr == "" {
		return models.InvoiceRecord{}, fmt.Errorf("missing item description")
	}

	raw := strings.TrimSpace(detail.Quantity)
	if raw == "" {
		return models.InvoiceRecord{}, fmt.Errorf("missing quantity")
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return models.InvoiceRecord{}, fmt.Errorf("invalid quantity %q: %w", raw, err)
	}

	return models.InvoiceRecord{
		IssuerName: name,
		IssuerVAT:  vat,
		ItemDescr:  descr,
		IssueDate:  date,
		Quantity:   qty,
	}, nil
}
