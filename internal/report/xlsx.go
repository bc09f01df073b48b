package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the quantity report.
const SheetName = "Invoice Quantities"

// colPadding widens auto-fitted columns a little past the widest value.
const colPadding = 2.0

// WriteXLSX renders the table as a spreadsheet. Cell contents and column
// order match the delimited encoding exactly; the spreadsheet additionally
// bolds the two header rows and sizes each column to its widest visible
// value.
func WriteXLSX(path string, table *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming worksheet: %w", err)
	}

	// Header rows: dates, then weekday names. Columns 1-2 stay blank.
	for i, date := range table.Dates {
		col := i + 3
		if err := setCell(f, col, 1, date); err != nil {
			return err
		}
		if err := setCell(f, col, 2, greekWeekday(date)); err != nil {
			return err
		}
	}

	// Body rows, one per aggregation key. Absent quantities stay empty.
	for i, row := range table.Rows {
		rowNum := i + 3
		if err := setCell(f, 1, rowNum, row.IssuerName); err != nil {
			return err
		}
		if err := setCell(f, 2, rowNum, row.ItemDescr); err != nil {
			return err
		}
		for j, date := range table.Dates {
			qty, ok := row.Quantities[date]
			if !ok {
				continue
			}
			v, _ := qty.Float64()
			if err := setCell(f, j+3, rowNum, v); err != nil {
				return err
			}
		}
	}

	if err := boldHeader(f, len(table.Dates)+2); err != nil {
		return err
	}
	if err := fitColumns(f, table); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving spreadsheet %s: %w", path, err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("addressing cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	return nil
}

func boldHeader(f *excelize.File, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 2)
	if err != nil {
		return fmt.Errorf("addressing header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return nil
}

// fitColumns sizes every column to its widest visible value.
func fitColumns(f *excelize.File, table *Table) error {
	widths := make([]int, len(table.Dates)+2)
	for i, date := range table.Dates {
		widths[i+2] = max(utf8.RuneCountInString(date), utf8.RuneCountInString(greekWeekday(date)))
	}
	for _, row := range table.Rows {
		widths[0] = max(widths[0], utf8.RuneCountInString(row.IssuerName))
		widths[1] = max(widths[1], utf8.RuneCountInString(row.ItemDescr))
		for i, date := range table.Dates {
			if qty, ok := row.Quantities[date]; ok {
				widths[i+2] = max(widths[i+2], len(qty.String()))
			}
		}
	}

	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("addressing column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, name, name, float64(width)+colPadding); err != nil {
			return fmt.Errorf("sizing column %s: %w", name, err)
		}
	}
	return nil
}
