// Package report folds invoice line items into per-day quantity totals and
// renders them as a spreadsheet or delimited text table.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"mydata-tools/pkg/models"
)

// dateKey is the textual date form used for map keys and report headers.
const dateKey = "2006-01-02"

// Key groups quantities by issuer display name and item description.
// Comparison is exact string equality.
type Key struct {
	IssuerName string
	ItemDescr  string
}

// Aggregator folds a record stream into summed quantities per key and
// date. The result depends only on the multiset of added records, never on
// their order.
type Aggregator struct {
	cells map[Key]map[string]decimal.Decimal
	dates map[string]struct{}
	vats  map[string]struct{}
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		cells: make(map[Key]map[string]decimal.Decimal),
		dates: make(map[string]struct{}),
		vats:  make(map[string]struct{}),
	}
}

// Observe records the issuer VAT number of a pre-filter record for VAT
// discovery. It does not touch the quantity cells.
func (a *Aggregator) Observe(rec models.InvoiceRecord) {
	if rec.IssuerVAT != "" {
		a.vats[rec.IssuerVAT] = struct{}{}
	}
}

// Add accumulates the record's quantity into its (issuer, item, date)
// cell, initializing an absent cell to zero first.
func (a *Aggregator) Add(rec models.InvoiceRecord) {
	key := Key{IssuerName: rec.IssuerName, ItemDescr: rec.ItemDescr}
	date := rec.IssueDate.Format(dateKey)

	byDate, ok := a.cells[key]
	if !ok {
		byDate = make(map[string]decimal.Decimal)
		a.cells[key] = byDate
	}
	byDate[date] = byDate[date].Add(rec.Quantity)
	a.dates[date] = struct{}{}
}

// Keys returns the number of distinct aggregation keys seen.
func (a *Aggregator) Keys() int {
	return len(a.cells)
}

// VATNumbers returns the distinct issuer VAT numbers observed, ascending.
func (a *Aggregator) VATNumbers() []string {
	vats := make([]string, 0, len(a.vats))
	for vat := range a.vats {
		vats = append(vats, vat)
	}
	sort.Strings(vats)
	return vats
}

// Row is one body row of the rendered report.
type Row struct {
	IssuerName string
	ItemDescr  string

	// Quantities maps a date to the summed quantity for this row. Dates
	// with no entry render as empty cells.
	Quantities map[string]decimal.Decimal
}

// Table is the rendered form of the aggregation: date columns ascending,
// body rows sorted by (issuer, item).
type Table struct {
	Dates []string
	Rows  []Row
}

// Table renders the aggregated state into a sorted table.
func (a *Aggregator) Table() *Table {
	dates := make([]string, 0, len(a.dates))
	for date := range a.dates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	keys := make([]Key, 0, len(a.cells))
	for key := range a.cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].IssuerName != keys[j].IssuerName {
			return keys[i].IssuerName < keys[j].IssuerName
		}
		return keys[i].ItemDescr < keys[j].ItemDescr
	})

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, Row{
			IssuerName: key.IssuerName,
			ItemDescr:  key.ItemDescr,
			Quantities: a.cells[key],
		})
	}

	return &Table{Dates: dates, Rows: rows}
}
