// Package template writes the sample spreadsheets users can start from.
package template

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/utils"
)

const (
	CSVName   = "sample_data.csv"
	XLSXName  = "sample_data.xlsx"
	sheetName = "Metrics"
	months    = 12
)

// Headers is the column order of both sample files.
var Headers = []string{
	analysis.ColDate,
	analysis.ColActiveUsers,
	analysis.ColNewUsers,
	analysis.ColChurnRate,
	analysis.ColRevenue,
}

var churn = [months]float64{5.0, 4.8, 4.5, 4.2, 4.0, 3.8, 3.5, 3.2, 3.0, 2.8, 2.5, 2.2}

// Row is one month of sample data.
type Row struct {
	Date        time.Time
	ActiveUsers int
	NewUsers    int
	ChurnRate   float64
	Revenue     int
}

// Rows returns twelve month-end rows starting at 2025-01-31.
func Rows() []Row {
	out := make([]Row, months)
	for i := range out {
		out[i] = Row{
			// day 0 of the following month is the last day of this one
			Date:        time.Date(2025, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC),
			ActiveUsers: 1000 + 200*i,
			NewUsers:    200 + 50*i,
			ChurnRate:   churn[i],
			Revenue:     10000 + 2000*i,
		}
	}
	return out
}

// Paths are the files produced by Write.
type Paths struct {
	CSV  string
	XLSX string
}

// Write creates dir if needed and (over)writes both sample files.
func Write(dir string) (Paths, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return Paths{}, fmt.Errorf("create template dir: %w", err)
	}
	csvPath, err := writeCSV(dir)
	if err != nil {
		return Paths{}, err
	}
	xlsxPath := filepath.Join(dir, XLSXName)
	if err := writeXLSX(xlsxPath); err != nil {
		return Paths{}, err
	}
	return Paths{CSV: csvPath, XLSX: xlsxPath}, nil
}

// EnsureCSV writes the sample CSV only when it does not exist yet.
func EnsureCSV(dir string) (string, error) {
	path := filepath.Join(dir, CSVName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create template dir: %w", err)
	}
	return writeCSV(dir)
}

func writeCSV(dir string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Headers)
	for _, r := range Rows() {
		_ = w.Write([]string{
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.ActiveUsers),
			strconv.Itoa(r.NewUsers),
			strconv.FormatFloat(r.ChurnRate, 'f', -1, 64),
			strconv.Itoa(r.Revenue),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode sample csv: %w", err)
	}
	path := filepath.Join(dir, CSVName)
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

func writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, h := range Headers {
		if err := setCell(f, col+1, 1, h); err != nil {
			return err
		}
	}
	for i, r := range Rows() {
		vals := []any{r.Date, r.ActiveUsers, r.NewUsers, r.ChurnRate, r.Revenue}
		for col, v := range vals {
			if err := setCell(f, col+1, i+2, v); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save sample xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, v)
}
