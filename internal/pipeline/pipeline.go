// Package pipeline turns one uploaded spreadsheet into a stored metric record.
//
// ProcessUpload is the only entry point callers need: it stores the file,
// reads and validates it, computes statistics, asks the insight runtime for
// recommendations and persists the result. Every failure is reported in the
// returned Result; nothing is persisted unless all steps before the save
// succeeded.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/ai"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/parser"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/store"
	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/uploads"
)

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MsgNoFile is returned when the upload has no name or no body.
const MsgNoFile = "No file provided"

// Upload is one file handed to the pipeline.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Result is the outcome of ProcessUpload. On success Record, Stats and
// Insights are set; on error only Message and Err are.
type Result struct {
	Status   string
	Record   *store.MetricRecord
	Stats    *analysis.Stats
	Insights string
	// InsightStatus is ai.StatusError when the recommendations are a
	// failure notice rather than analysis.
	InsightStatus string
	Message       string
	Err           error
}

// OK reports whether the upload was processed and stored.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Options wires a Service. Normalizer defaults to the built-in alias table and
// Logger to slog.Default().
type Options struct {
	Normalizer *analysis.Normalizer
	Insights   *ai.InsightGenerator
	Metrics    *store.MetricStore
	Uploads    *uploads.Store
	Logger     *slog.Logger
}

// Service runs the upload pipeline.
type Service struct {
	normalizer *analysis.Normalizer
	insights   *ai.InsightGenerator
	metrics    *store.MetricStore
	uploads    *uploads.Store
	logger     *slog.Logger
}

func New(opts Options) *Service {
	s := &Service{
		normalizer: opts.Normalizer,
		insights:   opts.Insights,
		metrics:    opts.Metrics,
		uploads:    opts.Uploads,
		logger:     opts.Logger,
	}
	if s.normalizer == nil {
		s.normalizer = analysis.NewNormalizer(analysis.DefaultAliases())
	}
	if s.insights == nil {
		s.insights = ai.NewInsightGenerator(nil, ai.InsightOptions{Provider: ai.ProviderNone, Logger: opts.Logger})
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ProcessUpload runs the whole pipeline for userID.
func (s *Service) ProcessUpload(ctx context.Context, up Upload, userID string) Result {
	log := s.logger.With("file", up.Filename, "user_id", userID)

	if up.Body == nil || strings.TrimSpace(up.Filename) == "" {
		return fail(MsgNoFile, errors.New(strings.ToLower(MsgNoFile)))
	}
	if _, err := parser.Detect(up.Filename); err != nil {
		log.Info("upload rejected", "error", err)
		return fail(err.Error(), err)
	}

	path, err := s.uploads.Save(up.Filename, up.Body)
	if err != nil {
		log.Error("store upload failed", "error", err)
		return fail(fmt.Sprintf("Error processing file: %v", err), err)
	}
	log = log.With("path", path)

	stats, err := s.analyze(up.Filename, path)
	if err != nil {
		log.Info("analysis failed", "error", err)
		return fail(fmt.Sprintf("Error analyzing data: %v", err), err)
	}

	insight := s.insights.Generate(ctx, stats)
	if insight.Degraded() {
		log.Warn("continuing with degraded insights", "error", insight.Err)
	}

	rec, err := s.metrics.Save(ctx, store.NewRecord{
		UserID:          userID,
		FilePath:        path,
		Stats:           stats,
		Recommendations: insight.Summary,
		InsightStatus:   insight.Status,
	})
	if err != nil {
		log.Error("save metrics failed", "error", err)
		var pe *store.PersistenceError
		cause := err
		if errors.As(err, &pe) {
			cause = pe.Err
		}
		return fail(fmt.Sprintf("Error saving metrics: %v", cause), err)
	}

	log.Info("upload processed", "record_id", rec.ID, "rows", stats.Rows, "insight_status", insight.Status)
	return Result{
		Status:        StatusSuccess,
		Record:        rec,
		Stats:         stats,
		Insights:      insight.Summary,
		InsightStatus: insight.Status,
	}
}

// MetricsForUser returns the user's records, most recent first.
func (s *Service) MetricsForUser(ctx context.Context, userID string) ([]store.MetricRecord, error) {
	return s.metrics.ListByUser(ctx, userID)
}

// analyze reads the stored file and computes its statistics. name is the
// client-side file name; it selects the reader even when sanitizing changed
// the stored name.
func (s *Service) analyze(name, path string) (*analysis.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	raw, err := parser.Read(name, f)
	if err != nil {
		return nil, err
	}
	table, err := analysis.Validate(s.normalizer.Normalize(raw.Headers, raw.Rows))
	if err != nil {
		return nil, err
	}
	return analysis.Compute(table)
}

func fail(msg string, err error) Result {
	return Result{Status: StatusError, Message: msg, Err: err}
}
