package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
)

// User owns zero or more metric records.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricRecord is the stored outcome of one successful upload. Rows are
// written once and never updated.
type MetricRecord struct {
	ID   string    `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"index;not null" json:"date"`

	ActiveUsers int64 `gorm:"not null" json:"active_users"`
	NewUsers    int64 `gorm:"not null" json:"new_users"`
	// ChurnRate is a percentage, e.g. 4.5 for 4.5%.
	ChurnRate float64 `gorm:"not null" json:"churn_rate"`
	// Revenue is the total revenue over the uploaded period.
	Revenue float64 `gorm:"not null" json:"revenue"`

	FilePath          string                             `gorm:"size:512" json:"file_path"`
	AnalysisSummary   string                             `gorm:"type:text" json:"analysis_summary"`
	AIRecommendations string                             `gorm:"type:text" json:"ai_recommendations"`
	InsightStatus     string                             `gorm:"size:16" json:"insight_status"`
	Stats             datatypes.JSONType[analysis.Stats] `json:"stats"`

	UserID string `gorm:"index;not null" json:"user_id"`
}

// Report returns the markdown view of the record.
func (m *MetricRecord) Report() *analysis.Report {
	return &analysis.Report{
		ID:              m.ID,
		CreatedAt:       m.Date,
		Source:          m.FilePath,
		Stats:           m.Stats.Data(),
		Recommendations: m.AIRecommendations,
	}
}
