package analysis

import (
	"strings"
	"time"
)

// Canonical column names every metrics sheet must provide after normalization.
const (
	ColDate        = "date"
	ColActiveUsers = "active_users"
	ColNewUsers    = "new_users"
	ColChurnRate   = "churn_rate"
	ColRevenue     = "revenue"
)

// RequiredColumns lists the numeric columns in the order they are reported.
var RequiredColumns = []string{ColActiveUsers, ColNewUsers, ColChurnRate, ColRevenue}

// Sheet is a header-normalized view of an uploaded file. Cells are still raw strings.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// Index returns the position of the first header equal to name, or -1.
func (s *Sheet) Index(name string) int {
	for i, h := range s.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the sheet carries a column named name.
func (s *Sheet) Has(name string) bool { return s.Index(name) >= 0 }

// Column returns the cells of column idx; short rows yield empty cells.
func (s *Sheet) Column(idx int) []string {
	out := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Table is the validated, typed form of a metrics sheet. Row i of every
// series describes the same period and rows are in chronological order.
type Table struct {
	// Dates is nil when the sheet has no date column.
	Dates       []time.Time
	ActiveUsers []float64
	NewUsers    []float64
	ChurnRate   []float64
	Revenue     []float64
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.ActiveUsers) }

func parseTimeMaybe(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
		"1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
