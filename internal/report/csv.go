package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// fieldSeparator is the delimiter of the text encoding.
const fieldSeparator = ";"

// WriteCSV renders the table as ';'-delimited text: two header rows (dates,
// then weekday names) with the first two columns blank, followed by one row
// per aggregation key. Cells with no recorded quantity stay empty.
func WriteCSV(w io.Writer, table *Table) error {
	header := append([]string{"", ""}, table.Dates...)
	if err := writeLine(w, header); err != nil {
		return err
	}

	weekdays := make([]string, 0, len(table.Dates)+2)
	weekdays = append(weekdays, "", "")
	for _, date := range table.Dates {
		weekdays = append(weekdays, greekWeekday(date))
	}
	if err := writeLine(w, weekdays); err != nil {
		return err
	}

	for _, row := range table.Rows {
		line := make([]string, 0, len(table.Dates)+2)
		line = append(line, row.IssuerName, row.ItemDescr)
		for _, date := range table.Dates {
			if qty, ok := row.Quantities[date]; ok {
				line = append(line, qty.String())
			} else {
				line = append(line, "")
			}
		}
		if err := writeLine(w, line); err != nil {
			return err
		}
	}

	return nil
}

// WriteCSVFile writes the delimited report to the file at path.
func WriteCSVFile(path string, table *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}

	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return fmt.Errorf("writing CSV file %s: %w", path, err)
	}
	return f.Close()
}

func writeLine(w io.Writer, fields []string) error {
	if _, err := io.WriteString(w, strings.Join(fields, fieldSeparator)+"\n"); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}
	return nil
}
