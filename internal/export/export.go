// Package export dumps stored metric records as CSV or Parquet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts "csv" or "parquet" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use csv or parquet)", s)
}

// Row is the flat export shape of one MetricRecord.
type Row struct {
	RecordID string    `parquet:"record_id,snappy"`
	UserID   string    `parquet:"user_id,snappy"`
	Date     time.Time `parquet:"date,snappy"`

	TotalUsers         int64   `parquet:"total_users,snappy"`
	ActiveUsers        int64   `parquet:"active_users,snappy"`
	NewUsers           int64   `parquet:"new_users,snappy"`
	ChurnRate          float64 `parquet:"churn_rate,snappy"`
	Revenue            float64 `parquet:"revenue,snappy"`
	AvgRevenuePerUser  float64 `parquet:"avg_revenue_per_user,snappy"`
	GrowthRate         float64 `parquet:"growth_rate,snappy"`
	RetentionRate      float64 `parquet:"retention_rate,snappy"`
	UserGrowthTrend    float64 `parquet:"user_growth_trend,snappy"`
	RevenueGrowthTrend float64 `parquet:"revenue_growth_trend,snappy"`
	Rows               int32   `parquet:"rows,snappy"`

	// Period bounds are absent when the upload had no date column.
	PeriodStart *time.Time `parquet:"period_start,optional,snappy"`
	PeriodEnd   *time.Time `parquet:"period_end,optional,snappy"`

	InsightStatus string `parquet:"insight_status,snappy"`
	FilePath      string `parquet:"file_path,snappy"`
}

// Rows flattens records, keeping their order.
func Rows(records []store.MetricRecord) []Row {
	out := make([]Row, 0, len(records))
	for _, rec := range records {
		s := rec.Stats.Data()
		out = append(out, Row{
			RecordID:           rec.ID,
			UserID:             rec.UserID,
			Date:               rec.Date.UTC(),
			TotalUsers:         s.TotalUsers,
			ActiveUsers:        rec.ActiveUsers,
			NewUsers:           rec.NewUsers,
			ChurnRate:          rec.ChurnRate,
			Revenue:            rec.Revenue,
			AvgRevenuePerUser:  s.AvgRevenuePerUser,
			GrowthRate:         s.GrowthRate,
			RetentionRate:      s.RetentionRate,
			UserGrowthTrend:    s.UserGrowthTrend,
			RevenueGrowthTrend: s.RevenueGrowthTrend,
			Rows:               int32(s.Rows),
			PeriodStart:        s.PeriodStart,
			PeriodEnd:          s.PeriodEnd,
			InsightStatus:      rec.InsightStatus,
			FilePath:           rec.FilePath,
		})
	}
	return out
}

var csvHeader = []string{
	"record_id", "user_id", "date", "total_users", "active_users", "new_users",
	"churn_rate", "revenue", "avg_revenue_per_user", "growth_rate", "retention_rate",
	"user_growth_trend", "revenue_growth_trend", "rows", "period_start", "period_end",
	"insight_status", "file_path",
}

// WriteCSV writes a header plus one line per record.
func WriteCSV(w io.Writer, records []store.MetricRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range Rows(records) {
		line := []string{
			r.RecordID, r.UserID, r.Date.Format(time.RFC3339),
			strconv.FormatInt(r.TotalUsers, 10),
			strconv.FormatInt(r.ActiveUsers, 10),
			strconv.FormatInt(r.NewUsers, 10),
			num(r.ChurnRate), num(r.Revenue), num(r.AvgRevenuePerUser),
			num(r.GrowthRate), num(r.RetentionRate),
			num(r.UserGrowthTrend), num(r.RevenueGrowthTrend),
			strconv.Itoa(int(r.Rows)),
			day(r.PeriodStart), day(r.PeriodEnd),
			r.InsightStatus, r.FilePath,
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet encodes records as a single Parquet file into w.
func WriteParquet(w io.Writer, records []store.MetricRecord) error {
	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(Rows(records)); err != nil {
		_ = pw.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates path and writes records in the given format.
func WriteFile(path string, format Format, records []store.MetricRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, records)
}

// Write dispatches on format.
func Write(w io.Writer, format Format, records []store.MetricRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatParquet:
		return WriteParquet(w, records)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
