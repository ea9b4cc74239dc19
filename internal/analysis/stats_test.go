package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestComputeExampleScenario(t *testing.T) {
	s, err := Compute(&Table{
		ActiveUsers: []float64{1000, 1200, 1400},
		NewUsers:    []float64{100, 100, 100},
		ChurnRate:   []float64{5.0, 4.0, 3.0},
		Revenue:     []float64{1000, 1200, 1400},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1400), s.TotalUsers)
	assert.Equal(t, int64(1200), s.ActiveUsers)
	assert.Equal(t, int64(300), s.NewUsers)
	assert.InDelta(t, 4.0, s.ChurnRate, eps)
	assert.InDelta(t, 3600.0, s.TotalRevenue, eps)
	assert.InDelta(t, 3.0, s.AvgRevenuePerUser, eps)
	assert.InDelta(t, 40.0, s.GrowthRate, eps)
	assert.InDelta(t, 96.0, s.RetentionRate, eps)
	assert.InDelta(t, 200.0, s.UserGrowthTrend, eps)
	assert.InDelta(t, 200.0, s.RevenueGrowthTrend, eps)
	assert.Equal(t, 3, s.Rows)
	assert.Nil(t, s.PeriodStart)
}

func TestComputeTruncatesMeanAndSum(t *testing.T) {
	s, err := Compute(&Table{
		ActiveUsers: []float64{10, 11},
		NewUsers:    []float64{1.6, 1.7},
		ChurnRate:   []float64{1, 2},
		Revenue:     []float64{5, 5},
	})
	require.NoError(t, err)

	// mean 10.5 and sum 3.3 both truncate toward zero
	assert.Equal(t, int64(10), s.ActiveUsers)
	assert.Equal(t, int64(3), s.NewUsers)
	assert.InDelta(t, 1.5, s.ChurnRate, eps)
}

func TestComputeTotalUsersIsLastRow(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	s, err := Compute(&Table{
		Dates:       dates,
		ActiveUsers: []float64{500, 900, 700},
		NewUsers:    []float64{1, 1, 1},
		ChurnRate:   []float64{1, 1, 1},
		Revenue:     []float64{1, 1, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(700), s.TotalUsers)
	require.NotNil(t, s.PeriodStart)
	assert.Equal(t, dates[0], *s.PeriodStart)
	assert.Equal(t, dates[2], *s.PeriodEnd)
}

func TestComputeOrderOnlyAffectsTrendAndGrowth(t *testing.T) {
	a, err := Compute(&Table{
		ActiveUsers: []float64{100, 200, 400},
		NewUsers:    []float64{10, 20, 30},
		ChurnRate:   []float64{2, 3, 4},
		Revenue:     []float64{50, 60, 90},
	})
	require.NoError(t, err)
	b, err := Compute(&Table{
		ActiveUsers: []float64{400, 100, 200},
		NewUsers:    []float64{30, 10, 20},
		ChurnRate:   []float64{4, 2, 3},
		Revenue:     []float64{90, 50, 60},
	})
	require.NoError(t, err)

	assert.Equal(t, a.ActiveUsers, b.ActiveUsers)
	assert.Equal(t, a.NewUsers, b.NewUsers)
	assert.InDelta(t, a.ChurnRate, b.ChurnRate, eps)
	assert.InDelta(t, a.TotalRevenue, b.TotalRevenue, eps)
	assert.InDelta(t, a.AvgRevenuePerUser, b.AvgRevenuePerUser, eps)
	assert.InDelta(t, a.RetentionRate, b.RetentionRate, eps)
	assert.NotEqual(t, a.GrowthRate, b.GrowthRate)
	assert.NotEqual(t, a.UserGrowthTrend, b.UserGrowthTrend)
}

func TestComputeConstantActiveUsers(t *testing.T) {
	s, err := Compute(&Table{
		ActiveUsers: []float64{750, 750, 750, 750},
		NewUsers:    []float64{0, 0, 0, 0},
		ChurnRate:   []float64{0, 0, 0, 0},
		Revenue:     []float64{1, 2, 3, 4},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, s.GrowthRate, eps)
	assert.InDelta(t, 0.0, s.UserGrowthTrend, eps)
	assert.InDelta(t, 1.0, s.RevenueGrowthTrend, eps)
	assert.InDelta(t, 100.0, s.RetentionRate, eps)
}

func TestComputeSingleRow(t *testing.T) {
	s, err := Compute(&Table{
		ActiveUsers: []float64{42},
		NewUsers:    []float64{7},
		ChurnRate:   []float64{3},
		Revenue:     []float64{84},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.TotalUsers)
	assert.Zero(t, s.GrowthRate)
	assert.Zero(t, s.UserGrowthTrend)
	assert.Zero(t, s.RevenueGrowthTrend)
	assert.InDelta(t, 2.0, s.AvgRevenuePerUser, eps)
}

func TestComputeZeroFirstActiveUsers(t *testing.T) {
	_, err := Compute(&Table{
		ActiveUsers: []float64{0, 100},
		NewUsers:    []float64{1, 1},
		ChurnRate:   []float64{1, 1},
		Revenue:     []float64{1, 1},
	})

	var dz *DivisionByZeroError
	require.True(t, errors.As(err, &dz))
	assert.Equal(t, "growth_rate", dz.Metric)
}

func TestComputeZeroMeanActiveUsers(t *testing.T) {
	_, err := Compute(&Table{
		ActiveUsers: []float64{0, 0},
		NewUsers:    []float64{1, 1},
		ChurnRate:   []float64{1, 1},
		Revenue:     []float64{1, 1},
	})

	var dz *DivisionByZeroError
	require.True(t, errors.As(err, &dz))
	assert.Equal(t, "avg_revenue_per_user", dz.Metric)
}

func TestComputeEmptyTable(t *testing.T) {
	_, err := Compute(&Table{})
	var ee *EmptyTableError
	assert.True(t, errors.As(err, &ee))
}

func TestSummaryAndPrompt(t *testing.T) {
	s := &Stats{
		TotalUsers: 1400, ActiveUsers: 1200, NewUsers: 300, ChurnRate: 4,
		TotalRevenue: 3600, AvgRevenuePerUser: 3, GrowthRate: 40, RetentionRate: 96,
		UserGrowthTrend: 200, RevenueGrowthTrend: 200.5,
	}

	sum := s.Summary()
	assert.Contains(t, sum, "total_users: 1400\n")
	assert.Contains(t, sum, "revenue_growth_trend: 200.5")
	assert.Equal(t, sum, s.Summary())

	p := s.Prompt()
	assert.Contains(t, p, "- Total Users: 1400\n")
	assert.Contains(t, p, "- Churn Rate: 4%\n")
	assert.Contains(t, p, "- Total Revenue: $3600\n")
	assert.Contains(t, p, "- Average Revenue per User: $3\n")
	assert.Contains(t, p, "- Growth Rate: 40%\n")
	assert.Contains(t, p, "- Retention Rate: 96%\n")
	assert.Contains(t, p, "3. Specific recommendations for improvement")
}

func TestFitIndex(t *testing.T) {
	f := FitIndex([]float64{1, 3, 5, 7})
	assert.InDelta(t, 2.0, f.Slope, eps)
	assert.InDelta(t, 1.0, f.Intercept, eps)
	assert.InDelta(t, 1.0, f.R, eps)

	assert.Equal(t, Fit{}, FitIndex(nil))
	assert.Equal(t, Fit{Intercept: 9}, FitIndex([]float64{9}))
}

func TestReportMarkdown(t *testing.T) {
	r := &Report{
		ID:        "abc",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:    "uploads/q1.csv",
		Stats:     Stats{TotalUsers: 10, ChurnRate: 2.5, Rows: 3},
	}
	md := r.Markdown()
	assert.Contains(t, md, "# SaaS Growth Report")
	assert.Contains(t, md, "Created: 2025-03-01T12:00:00Z")
	assert.Contains(t, md, "| Total users | 10 |")
	assert.Contains(t, md, "| Churn rate | 2.50% |")
	assert.Contains(t, md, "Rows: 3")
	assert.Contains(t, md, "_No recommendations available._")
}
