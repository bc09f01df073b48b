package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// scenarioTable builds the aggregation of two ZACO/Milk records (10 + 5)
// plus a second key with a gap, covering empty-cell rendering.
func scenarioTable() *Table {
	agg := NewAggregator()
	agg.Add(rec("ZACO", "094254743", "Milk", "2025-12-01", 10))
	agg.Add(rec("ZACO", "094254743", "Milk", "2025-12-01", 5))
	return agg.Table()
}

func TestWriteCSV(t *testing.T) {
	t.Run("single date column scenario", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, scenarioTable()))

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		require.Len(t, lines, 3)
		assert.Equal(t, ";;2025-12-01", string(lines[0]))
		assert.Equal(t, ";;Δευτέρα", string(lines[1]))
		assert.Equal(t, "ZACO;Milk;15", string(lines[2]))
	})

	t.Run("missing quantities render as empty cells", func(t *testing.T) {
		agg := NewAggregator()
		agg.Add(rec("ZACO", "094254743", "Milk", "2025-12-01", 15))
		agg.Add(rec("ZACO", "094254743", "Bread", "2025-12-02", 4))

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, agg.Table()))

		lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
		require.Len(t, lines, 4)
		assert.Equal(t, ";;2025-12-01;2025-12-02", string(lines[0]))
		assert.Equal(t, ";;Δευτέρα;Τρίτη", string(lines[1]))
		assert.Equal(t, "ZACO;Bread;;4", string(lines[2]))
		assert.Equal(t, "ZACO;Milk;15;", string(lines[3]))
	})
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, scenarioTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	cell := func(ref string) string {
		v, err := f.GetCellValue(SheetName, ref)
		require.NoError(t, err)
		return v
	}

	// Cell contents agree with the delimited encoding.
	assert.Empty(t, cell("A1"))
	assert.Empty(t, cell("B1"))
	assert.Equal(t, "2025-12-01", cell("C1"))
	assert.Equal(t, "Δευτέρα", cell("C2"))
	assert.Equal(t, "ZACO", cell("A3"))
	assert.Equal(t, "Milk", cell("B3"))
	assert.Equal(t, "15", cell("C3"))

	// Header rows are bold.
	styleID, err := f.GetCellStyle(SheetName, "C1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	// Columns are at least as wide as their widest value.
	width, err := f.GetColWidth(SheetName, "C")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, width, 10.0)
}

func TestGreekWeekday(t *testing.T) {
	cases := map[string]string{
		"2025-12-01": "Δευτέρα",
		"2025-12-02": "Τρίτη",
		"2025-12-03": "Τετάρτη",
		"2025-12-04": "Πέμπτη",
		"2025-12-05": "Παρασκευή",
		"2025-12-06": "Σάββατο",
		"2025-12-07": "Κυριακή",
	}
	for date, want := range cases {
		assert.Equal(t, want, greekWeekday(date), date)
	}
	assert.Empty(t, greekWeekday("not-a-date"))
}
