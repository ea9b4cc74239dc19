package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/parser"
)

func TestDetectRejectsUnsupportedExtensions(t *testing.T) {
	for _, name := range []string{"report.pdf", "data.tsv", "data.xls", "noext", "csv"} {
		_, err := parser.Detect(name)
		var fe *parser.FormatError
		require.True(t, errors.As(err, &fe), name)
		assert.Equal(t, name, fe.Filename)
		assert.Equal(t, "Invalid file format. Please upload a CSV or Excel file (.csv or .xlsx)", err.Error())
	}
	assert.True(t, parser.Allowed("Metrics.CSV"))
	assert.True(t, parser.Allowed("q1.XLSX"))
}

func TestReadCSV(t *testing.T) {
	content := "date,Active Users,new_users,churn_rate,revenue\n" +
		"2025-01-31, 1000,200,5.0,10000\n" +
		"\n" +
		",,,,\n" +
		"2025-02-28,1200,250,4.8\n"
	tbl, err := parser.Read("m.csv", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "Active Users", "new_users", "churn_rate", "revenue"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"2025-01-31", "1000", "200", "5.0", "10000"}, tbl.Rows[0])
	assert.Equal(t, []string{"2025-02-28", "1200", "250", "4.8"}, tbl.Rows[1])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := parser.Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, parser.ErrEmptyFile)
}

func TestReadFileXLSX(t *testing.T) {
	path := writeXLSXFixture(t)

	tbl, err := parser.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "MAU", "new_users", "churn_rate", "revenue"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "1000", tbl.Rows[0][1])
	assert.Equal(t, "4.8", tbl.Rows[1][3])
	// dates stay as serial numbers
	assert.NotContains(t, tbl.Rows[0][0], "-")
}

func TestReadFileUnsupported(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	_, err := parser.ReadFile(p)
	var fe *parser.FormatError
	assert.True(t, errors.As(err, &fe))
}

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := "Metrics"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	rows := [][]any{
		{"date", "MAU", "new_users", "churn_rate", "revenue"},
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1000, 200, 5.0, 10000},
		{time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), 1200, 250, 4.8, 12000},
	}
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
