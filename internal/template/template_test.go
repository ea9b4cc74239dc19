package template_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/parser"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/template"
)

func TestRowsAreMonthEnds(t *testing.T) {
	rows := template.Rows()
	require.Len(t, rows, 12)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), rows[1].Date)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), rows[11].Date)
	assert.Equal(t, 3200, rows[11].ActiveUsers)
	assert.Equal(t, 750, rows[11].NewUsers)
	assert.Equal(t, 2.2, rows[11].ChurnRate)
	assert.Equal(t, 32000, rows[11].Revenue)
}

func analyze(t *testing.T, path string) *analysis.Stats {
	t.Helper()
	tbl, err := parser.ReadFile(path)
	require.NoError(t, err)
	sheet := analysis.NewNormalizer(analysis.DefaultAliases()).Normalize(tbl.Headers, tbl.Rows)
	table, err := analysis.Validate(sheet)
	require.NoError(t, err)
	s, err := analysis.Compute(table)
	require.NoError(t, err)
	return s
}

func TestWriteProducesAnalyzableFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	paths, err := template.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, template.CSVName), paths.CSV)
	assert.Equal(t, filepath.Join(dir, template.XLSXName), paths.XLSX)

	for _, p := range []string{paths.CSV, paths.XLSX} {
		s := analyze(t, p)
		assert.Equal(t, 12, s.Rows, p)
		assert.Equal(t, int64(3200), s.TotalUsers, p)
		assert.Equal(t, int64(2100), s.ActiveUsers, p)
		assert.Equal(t, int64(5700), s.NewUsers, p)
		assert.InDelta(t, 3.625, s.ChurnRate, 1e-9, p)
		assert.InDelta(t, 252000.0, s.TotalRevenue, 1e-9, p)
		assert.InDelta(t, 120.0, s.AvgRevenuePerUser, 1e-9, p)
		assert.InDelta(t, 220.0, s.GrowthRate, 1e-9, p)
		assert.InDelta(t, 200.0, s.UserGrowthTrend, 1e-6, p)
		assert.InDelta(t, 2000.0, s.RevenueGrowthTrend, 1e-6, p)
		require.NotNil(t, s.PeriodStart, p)
		assert.Equal(t, "2025-01-31", s.PeriodStart.Format("2006-01-02"), p)
		assert.Equal(t, "2025-12-31", s.PeriodEnd.Format("2006-01-02"), p)
	}
}

func TestEnsureCSVKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, template.CSVName)
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))

	got, err := template.EnsureCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	b, _ := os.ReadFile(path)
	assert.Equal(t, "custom", string(b))
}

func TestEnsureCSVCreatesMissingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	path, err := template.EnsureCSV(dir)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "date,active_users,new_users,churn_rate,revenue\n2025-01-31,1000,200,5,10000\n")
	assert.NoFileExists(t, filepath.Join(dir, template.XLSXName))
}
