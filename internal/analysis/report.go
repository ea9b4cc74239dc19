package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Report is a markdown-friendly view of one stored analysis.
type Report struct {
	ID              string
	CreatedAt       time.Time
	Source          string
	Stats           Stats
	Recommendations string
}

// Markdown renders a compact report suitable for sharing or printing.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# SaaS Growth Report\n\n")
	if r.ID != "" {
		b.WriteString(fmt.Sprintf("Record: %s\n", r.ID))
	}
	if !r.CreatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Created: %s\n", r.CreatedAt.UTC().Format(time.RFC3339)))
	}
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	s := r.Stats
	if s.PeriodStart != nil && s.PeriodEnd != nil {
		b.WriteString(fmt.Sprintf("Period: %s to %s (%d rows)\n",
			s.PeriodStart.Format("2006-01-02"), s.PeriodEnd.Format("2006-01-02"), s.Rows))
	} else if s.Rows > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	}

	b.WriteString("\n## Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	rows := [][2]string{
		{"Total users", fmt.Sprintf("%d", s.TotalUsers)},
		{"Active users (mean)", fmt.Sprintf("%d", s.ActiveUsers)},
		{"New users", fmt.Sprintf("%d", s.NewUsers)},
		{"Churn rate", fmt.Sprintf("%.2f%%", s.ChurnRate)},
		{"Retention rate", fmt.Sprintf("%.2f%%", s.RetentionRate)},
		{"Total revenue", fmt.Sprintf("$%.2f", s.TotalRevenue)},
		{"Revenue per user", fmt.Sprintf("$%.2f", s.AvgRevenuePerUser)},
		{"Growth rate", fmt.Sprintf("%.2f%%", s.GrowthRate)},
		{"User trend", fmt.Sprintf("%+.2f / period", s.UserGrowthTrend)},
		{"Revenue trend", fmt.Sprintf("%+.2f / period", s.RevenueGrowthTrend)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
	}

	b.WriteString("\n## Recommendations\n\n")
	rec := strings.TrimSpace(r.Recommendations)
	if rec == "" {
		rec = "_No recommendations available._"
	}
	b.WriteString(rec)
	b.WriteString("\n")
	return b.String()
}
