package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Validate checks that every required column is present and coerces the
// sheet into a Table. Missing columns yield *SchemaError; cells that do not
// parse as finite numbers (or dates, for the optional date column) yield
// *DataTypeError naming every offending column.
func Validate(s *Sheet) (*Table, error) {
	var missing []string
	for _, c := range RequiredColumns {
		if !s.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	if len(s.Rows) == 0 {
		return nil, &EmptyTableError{}
	}

	t := &Table{}
	targets := map[string]*[]float64{
		ColActiveUsers: &t.ActiveUsers,
		ColNewUsers:    &t.NewUsers,
		ColChurnRate:   &t.ChurnRate,
		ColRevenue:     &t.Revenue,
	}
	var bad []string
	for _, c := range RequiredColumns {
		vals, ok := coerceNumeric(s.Column(s.Index(c)))
		if !ok {
			bad = append(bad, c)
			continue
		}
		*targets[c] = vals
	}
	if idx := s.Index(ColDate); idx >= 0 {
		dates, ok := coerceDates(s.Column(idx))
		if ok {
			t.Dates = dates
		} else {
			bad = append(bad, ColDate)
		}
	}
	if len(bad) > 0 {
		return nil, &DataTypeError{Columns: bad}
	}
	if err := checkNonNegative(t); err != nil {
		return nil, err
	}
	return t, nil
}

// RangeError names columns holding values outside their allowed range.
type RangeError struct {
	Columns []string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("Found negative values in columns: %s", strings.Join(e.Columns, ", "))
}

func checkNonNegative(t *Table) error {
	var bad []string
	for _, c := range []struct {
		name string
		vals []float64
	}{
		{ColActiveUsers, t.ActiveUsers},
		{ColNewUsers, t.NewUsers},
		{ColRevenue, t.Revenue},
	} {
		for _, v := range c.vals {
			if v < 0 {
				bad = append(bad, c.name)
				break
			}
		}
	}
	if len(bad) > 0 {
		return &RangeError{Columns: bad}
	}
	return nil
}

func coerceNumeric(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	ok := true
	for i, c := range cells {
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			ok = false
			continue
		}
		out[i] = f
	}
	return out, ok
}

func coerceDates(cells []string) ([]time.Time, bool) {
	out := make([]time.Time, len(cells))
	for i, c := range cells {
		t, ok := parseDate(c)
		if !ok {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}

// parseDate accepts the layouts of parseTimeMaybe and Excel serial day numbers,
// which is how raw XLSX cells carry dates.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseTimeMaybe(s); ok {
		return t, true
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
