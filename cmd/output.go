package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/ai"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// renderTable writes a right-aligned table with the given headers.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// writeStats prints the aggregates of one upload as a two-column table.
func writeStats(w io.Writer, s *analysis.Stats) error {
	rows := [][]string{
		{"Total users", strconv.FormatInt(s.TotalUsers, 10)},
		{"Active users (avg)", strconv.FormatInt(s.ActiveUsers, 10)},
		{"New users", strconv.FormatInt(s.NewUsers, 10)},
		{"Churn rate", fmt.Sprintf("%.2f%%", s.ChurnRate)},
		{"Retention rate", fmt.Sprintf("%.2f%%", s.RetentionRate)},
		{"Total revenue", fmt.Sprintf("%.2f", s.TotalRevenue)},
		{"Revenue per user", fmt.Sprintf("%.2f", s.AvgRevenuePerUser)},
		{"Growth rate", signed(s.GrowthRate, "%")},
		{"User trend / month", signed(s.UserGrowthTrend, "")},
		{"Revenue trend / month", signed(s.RevenueGrowthTrend, "")},
	}
	return renderTable(w, []string{"Metric", "Value"}, rows)
}

// writeRecords prints one line per stored record.
func writeRecords(w io.Writer, recs []store.MetricRecord) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		s := r.Stats.Data()
		insight := green(r.InsightStatus)
		if r.InsightStatus != ai.StatusSuccess {
			insight = yellow(r.InsightStatus)
		}
		rows = append(rows, []string{
			r.Date.Local().Format("2006-01-02 15:04"),
			r.ID,
			strconv.FormatInt(r.ActiveUsers, 10),
			strconv.FormatInt(r.NewUsers, 10),
			fmt.Sprintf("%.2f", r.ChurnRate),
			fmt.Sprintf("%.2f", r.Revenue),
			signed(s.GrowthRate, "%"),
			insight,
		})
	}
	return renderTable(w, []string{"Date", "Record", "Active", "New", "Churn %", "Revenue", "Growth", "Insights"}, rows)
}

// signed colors positive values green and negative values red.
func signed(v float64, suffix string) string {
	switch {
	case v > 0:
		return green(fmt.Sprintf("+%.2f%s", v, suffix))
	case v < 0:
		return red(fmt.Sprintf("%.2f%s", v, suffix))
	default:
		return fmt.Sprintf("%.2f%s", v, suffix)
	}
}
