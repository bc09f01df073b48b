// Package vatrules reads and applies supplier VAT rule files.
//
// A rule file has one rule per line:
//
//	VAT_NUMBER [DATE_ADJUSTMENT] [# comment]
//
// The date adjustment is a signed number of days (default 0). A '#' starts
// a comment that runs to end of line; blank and comment-only lines are
// ignored. Later entries for the same VAT number overwrite earlier ones.
package vatrules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"mydata-tools/internal/logger"
	"mydata-tools/pkg/models"
)

// Rule holds the filtering decision for one supplier VAT number.
type Rule struct {
	VATNumber      string
	DateAdjustment int    // Days to shift matched records, may be negative
	Comment        string // Trailing comment from the rule line, if any
}

// Table maps supplier VAT numbers to rules. A nil *Table means no
// filtering at all: every record passes through unchanged.
type Table struct {
	rules map[string]Rule
}

// Parse reads rule-file text into a Table. Malformed adjustment tokens are
// tolerated with a warning and fall back to 0; lines with no VAT token are
// ignored.
func Parse(r io.Reader) (*Table, error) {
	log := logger.WithComponent("vatrules")

	table := &Table{rules: make(map[string]Rule)}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		var comment string
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			comment = strings.TrimSpace(line[idx+1:])
			line = line[:idx]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		rule := Rule{VATNumber: fields[0], Comment: comment}
		if len(fields) > 1 {
			adj, err := strconv.Atoi(fields[1])
			if err != nil {
				log.Warn().
					Int("line", lineNum).
					Str("vat", rule.VATNumber).
					Str("token", fields[1]).
					Msg("Invalid date adjustment, using 0")
			} else {
				rule.DateAdjustment = adj
			}
		}

		table.rules[rule.VATNumber] = rule
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}

	return table, nil
}

// LoadFile parses the rule file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rule file: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	return table, nil
}

// Len returns the number of distinct VAT numbers in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Lookup returns the rule for a VAT number.
func (t *Table) Lookup(vat string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	rule, ok := t.rules[vat]
	return rule, ok
}

// VATNumbers returns the table's VAT numbers in ascending order.
func (t *Table) VATNumbers() []string {
	if t == nil {
		return nil
	}
	vats := make([]string, 0, len(t.rules))
	for vat := range t.rules {
		vats = append(vats, vat)
	}
	sort.Strings(vats)
	return vats
}

// Apply filters and date-shifts a record stream. With a nil table every
// record passes through unchanged. Otherwise records whose issuer VAT is
// absent from the table are dropped and matched records have their issue
// date shifted by the rule's adjustment.
func (t *Table) Apply(records []models.InvoiceRecord) []models.InvoiceRecord {
	if t == nil {
		return records
	}

	filtered := make([]models.InvoiceRecord, 0, len(records))
	for _, rec := range records {
		rule, ok := t.rules[rec.IssuerVAT]
		if !ok {
			continue
		}
		filtered = append(filtered, rec.ShiftDate(rule.DateAdjustment))
	}
	return filtered
}

// WriteDiscovered serializes discovered issuer VAT numbers in the rule-file
// grammar, one `VAT 0` line per number in ascending order, so the output
// is directly usable as a future rule file.
func WriteDiscovered(w io.Writer, vats []string) error {
	sorted := make([]string, len(vats))
	copy(sorted, vats)
	sort.Strings(sorted)

	for _, vat := range sorted {
		if _, err := fmt.Fprintf(w, "%s 0\n", vat); err != nil {
			return fmt.Errorf("writing VAT numbers: %w", err)
		}
	}
	return nil
}

// WriteDiscoveredFile writes discovered VAT numbers to the file at path.
func WriteDiscoveredFile(path string, vats []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating VAT output file: %w", err)
	}

	if err := WriteDiscovered(f, vats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
