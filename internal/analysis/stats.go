package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stats holds the aggregates computed for one upload.
type Stats struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	NewUsers           int64   `json:"new_users"`
	ChurnRate          float64 `json:"churn_rate"`
	TotalRevenue       float64 `json:"total_revenue"`
	AvgRevenuePerUser  float64 `json:"avg_revenue_per_user"`
	GrowthRate         float64 `json:"growth_rate"`
	RetentionRate      float64 `json:"retention_rate"`
	UserGrowthTrend    float64 `json:"user_growth_trend"`
	RevenueGrowthTrend float64 `json:"revenue_growth_trend"`

	Rows        int        `json:"rows"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

// Compute derives Stats from a validated table. Row order is taken as
// chronological order; rows are never re-sorted.
func Compute(t *Table) (*Stats, error) {
	n := t.Len()
	if n == 0 {
		return nil, &EmptyTableError{}
	}
	meanActive := mean(t.ActiveUsers)
	churn := mean(t.ChurnRate)
	revenue := sum(t.Revenue)

	s := &Stats{
		TotalUsers:    int64(math.Trunc(t.ActiveUsers[n-1])),
		ActiveUsers:   int64(math.Trunc(meanActive)),
		NewUsers:      int64(math.Trunc(sum(t.NewUsers))),
		ChurnRate:     churn,
		TotalRevenue:  revenue,
		RetentionRate: 100 - churn,
		Rows:          n,
	}
	if meanActive == 0 {
		return nil, &DivisionByZeroError{Metric: "avg_revenue_per_user", Reason: "mean active_users"}
	}
	s.AvgRevenuePerUser = revenue / meanActive

	first, last := t.ActiveUsers[0], t.ActiveUsers[n-1]
	if first == 0 {
		return nil, &DivisionByZeroError{Metric: "growth_rate", Reason: "first active_users value"}
	}
	s.GrowthRate = (last - first) / first * 100

	s.UserGrowthTrend = FitIndex(t.ActiveUsers).Slope
	s.RevenueGrowthTrend = FitIndex(t.Revenue).Slope

	if len(t.Dates) == n {
		start, end := t.Dates[0], t.Dates[n-1]
		s.PeriodStart, s.PeriodEnd = &start, &end
	}
	return s, nil
}

// Summary renders the aggregates as stable "key: value" lines.
func (s *Stats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total_users: %d\n", s.TotalUsers)
	fmt.Fprintf(&b, "active_users: %d\n", s.ActiveUsers)
	fmt.Fprintf(&b, "new_users: %d\n", s.NewUsers)
	fmt.Fprintf(&b, "churn_rate: %s\n", formatFloat(s.ChurnRate))
	fmt.Fprintf(&b, "total_revenue: %s\n", formatFloat(s.TotalRevenue))
	fmt.Fprintf(&b, "avg_revenue_per_user: %s\n", formatFloat(s.AvgRevenuePerUser))
	fmt.Fprintf(&b, "growth_rate: %s\n", formatFloat(s.GrowthRate))
	fmt.Fprintf(&b, "retention_rate: %s\n", formatFloat(s.RetentionRate))
	fmt.Fprintf(&b, "user_growth_trend: %s\n", formatFloat(s.UserGrowthTrend))
	fmt.Fprintf(&b, "revenue_growth_trend: %s", formatFloat(s.RevenueGrowthTrend))
	return b.String()
}

// Prompt renders the request sent to the insight service.
func (s *Stats) Prompt() string {
	var b strings.Builder
	b.WriteString("Analyze the following SaaS metrics and provide insights and recommendations:\n\n")
	b.WriteString("Metrics:\n")
	fmt.Fprintf(&b, "- Total Users: %d\n", s.TotalUsers)
	fmt.Fprintf(&b, "- Active Users: %d\n", s.ActiveUsers)
	fmt.Fprintf(&b, "- New Users: %d\n", s.NewUsers)
	fmt.Fprintf(&b, "- Churn Rate: %s%%\n", formatFloat(s.ChurnRate))
	fmt.Fprintf(&b, "- Total Revenue: $%s\n", formatFloat(s.TotalRevenue))
	fmt.Fprintf(&b, "- Average Revenue per User: $%s\n", formatFloat(s.AvgRevenuePerUser))
	fmt.Fprintf(&b, "- Growth Rate: %s%%\n", formatFloat(s.GrowthRate))
	fmt.Fprintf(&b, "- Retention Rate: %s%%\n\n", formatFloat(s.RetentionRate))
	b.WriteString("Please provide:\n")
	b.WriteString("1. A summary of the main trends\n")
	b.WriteString("2. Key insights about user behavior\n")
	b.WriteString("3. Specific recommendations for improvement\n")
	return b.String()
}

// formatFloat prints the shortest exact representation, never an exponent.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return sum(vals) / float64(len(vals))
}
