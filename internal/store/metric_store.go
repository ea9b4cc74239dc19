package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
)

// NewRecord is everything the writer needs to build one MetricRecord.
type NewRecord struct {
	UserID          string
	FilePath        string
	Stats           *analysis.Stats
	Recommendations string
	InsightStatus   string
}

type MetricStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMetricStore(db *gorm.DB) *MetricStore {
	return &MetricStore{db: db, now: time.Now}
}

// WithClock returns a copy of the store stamping records with now.
func (s *MetricStore) WithClock(now func() time.Time) *MetricStore {
	return &MetricStore{db: s.db, now: now}
}

func (s *MetricStore) Migrate() error {
	return s.db.AutoMigrate(&MetricRecord{})
}

// Save builds the record and commits it in one transaction after checking
// that the owner exists. Any failure rolls the transaction back and is
// returned as *PersistenceError.
func (s *MetricStore) Save(ctx context.Context, in NewRecord) (*MetricRecord, error) {
	if in.Stats == nil {
		return nil, &PersistenceError{Op: "save metric record", Err: errors.New("missing statistics")}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, &PersistenceError{Op: "save metric record", Err: err}
	}
	rec := &MetricRecord{
		ID:                id.String(),
		Date:              s.now().UTC(),
		ActiveUsers:       in.Stats.ActiveUsers,
		NewUsers:          in.Stats.NewUsers,
		ChurnRate:         in.Stats.ChurnRate,
		Revenue:           in.Stats.TotalRevenue,
		FilePath:          in.FilePath,
		AnalysisSummary:   in.Stats.Summary(),
		AIRecommendations: in.Recommendations,
		InsightStatus:     in.InsightStatus,
		Stats:             datatypes.NewJSONType(*in.Stats),
		UserID:            in.UserID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&User{}).Where("id = ?", in.UserID).Count(&owners).Error; err != nil {
			return err
		}
		if owners == 0 {
			return fmt.Errorf("user %q: %w", in.UserID, ErrNotFound)
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "save metric record", Err: err}
	}
	return rec, nil
}

// ListByUser returns the user's records, most recent first.
func (s *MetricStore) ListByUser(ctx context.Context, userID string) ([]MetricRecord, error) {
	var out []MetricRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list metric records", Err: err}
	}
	return out, nil
}

// Get returns one record owned by userID.
func (s *MetricStore) Get(ctx context.Context, userID, id string) (*MetricRecord, error) {
	var rec MetricRecord
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get metric record", Err: err}
	}
	return &rec, nil
}
