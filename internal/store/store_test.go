package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:", false)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *User {
	t.Helper()
	u := &User{Email: email, Name: "Test"}
	require.NoError(t, NewUserStore(db).Create(context.Background(), u))
	return u
}

func exampleStats() *analysis.Stats {
	return &analysis.Stats{
		TotalUsers: 1400, ActiveUsers: 1200, NewUsers: 300, ChurnRate: 4,
		TotalRevenue: 3600, AvgRevenuePerUser: 3, GrowthRate: 40, RetentionRate: 96,
		UserGrowthTrend: 200, RevenueGrowthTrend: 200, Rows: 3,
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db := setupTestDB(t)
	assert.True(t, db.Migrator().HasTable(&User{}))
	assert.True(t, db.Migrator().HasTable("metric_records"))
}

func TestOpenFileDatabaseCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "metrics.db")
	db, err := Open(DriverSQLite, path, false)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Close(db))
	assert.FileExists(t, path)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x", false)
	assert.Error(t, err)
}

func TestUserStore(t *testing.T) {
	db := setupTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	u := &User{Email: "  Founder@Example.com ", Name: "Ada", Company: "Acme"}
	require.NoError(t, s.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "founder@example.com", u.Email)

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)

	got, err = s.Resolve(ctx, "FOUNDER@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &User{Email: "founder@example.com"}
	var pe *PersistenceError
	assert.True(t, errors.As(s.Create(ctx, dup), &pe))

	assert.Error(t, s.Create(ctx, &User{}))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMetricStoreSaveAndList(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")
	other := createUser(t, db, "b@example.com")
	ctx := context.Background()

	clock := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	s := NewMetricStore(db).WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	first, err := s.Save(ctx, NewRecord{UserID: u.ID, FilePath: "uploads/q1.csv", Stats: exampleStats(), Recommendations: "Focus on retention.", InsightStatus: "success"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, time.Date(2025, 4, 1, 10, 1, 0, 0, time.UTC), first.Date)
	assert.Equal(t, int64(1200), first.ActiveUsers)
	assert.Equal(t, int64(300), first.NewUsers)
	assert.InDelta(t, 4.0, first.ChurnRate, 1e-9)
	assert.InDelta(t, 3600.0, first.Revenue, 1e-9)
	assert.Contains(t, first.AnalysisSummary, "total_users: 1400")

	second, err := s.Save(ctx, NewRecord{UserID: u.ID, FilePath: "uploads/q2.csv", Stats: exampleStats()})
	require.NoError(t, err)
	_, err = s.Save(ctx, NewRecord{UserID: other.ID, Stats: exampleStats()})
	require.NoError(t, err)

	list, err := s.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, int64(1400), list[1].Stats.Data().TotalUsers)
	assert.Equal(t, "Focus on retention.", list[1].AIRecommendations)

	got, err := s.Get(ctx, u.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/q1.csv", got.FilePath)
	assert.Contains(t, got.Report().Markdown(), "Focus on retention.")

	_, err = s.Get(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMetricStoreSaveUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	s := NewMetricStore(db)
	ctx := context.Background()

	_, err := s.Save(ctx, NewRecord{UserID: "ghost", Stats: exampleStats()})
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&MetricRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMetricStoreSaveRollsBack(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")
	ctx := context.Background()

	// fail after the INSERT has run so only the rollback can undo it
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:fail_after_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "metric_records" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := NewMetricStore(db).Save(ctx, NewRecord{UserID: u.ID, Stats: exampleStats()})
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, err.Error(), "disk full")

	list, err := NewMetricStore(db).ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMetricStoreSaveRequiresStats(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewMetricStore(db).Save(context.Background(), NewRecord{UserID: "x"})
	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
}
