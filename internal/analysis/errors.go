package analysis

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are still absent after alias mapping.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Missing required columns: %s\n", strings.Join(e.Missing, ", "))
	b.WriteString("Your file must contain the following columns:\n")
	b.WriteString("- active_users: Number of active users\n")
	b.WriteString("- new_users: Number of new users\n")
	b.WriteString("- churn_rate: Rate of user churn (as percentage)\n")
	b.WriteString("- revenue: Revenue amount\n")
	b.WriteString("\nPlease ensure your file has these columns or similar variations.")
	return b.String()
}

// DataTypeError names the columns holding values that could not be coerced.
type DataTypeError struct {
	Columns []string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("Found non-numeric values in columns: %s", strings.Join(e.Columns, ", "))
}

// DivisionByZeroError is returned when an aggregate has a zero denominator.
type DivisionByZeroError struct {
	// Metric is the aggregate that could not be computed.
	Metric string
	// Reason names the zero-valued input.
	Reason string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("cannot compute %s: %s is zero", e.Metric, e.Reason)
}

// EmptyTableError is returned for sheets with a header row but no data rows.
type EmptyTableError struct{}

func (e *EmptyTableError) Error() string { return "file contains no data rows" }
