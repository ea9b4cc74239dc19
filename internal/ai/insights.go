package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/elotmaniaya12/Saas-User-Growth-Analyzer/internal/analysis"
)

// SystemPrompt frames every insight request.
const SystemPrompt = "You are a SaaS business analyst expert."

// Insight status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Defaults applied by NewInsightGenerator.
const (
	DefaultModel          = "gpt-4"
	DefaultMaxTokens      = 1000
	DefaultInsightTimeout = 30 * time.Second
)

// ErrNoRuntime is reported when insights are disabled or misconfigured.
var ErrNoRuntime = errors.New("no insight provider configured")

// Insight is the narrative produced for one set of statistics. When Status
// is StatusError, Summary describes the failure and Err holds it.
type Insight struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
	Err     error  `json:"-"`
}

// Degraded reports whether the insight carries an error message instead of analysis.
func (i Insight) Degraded() bool { return i.Status != StatusSuccess }

// InsightOptions tunes an InsightGenerator.
type InsightOptions struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Logger      *slog.Logger
}

// InsightGenerator turns statistics into narrative recommendations via a Runtime.
type InsightGenerator struct {
	runtime Runtime
	opts    InsightOptions
	logger  *slog.Logger
}

// NewInsightGenerator binds rt to opts. A nil rt yields a generator whose
// every result is degraded.
func NewInsightGenerator(rt Runtime, opts InsightOptions) *InsightGenerator {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultInsightTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightGenerator{runtime: rt, opts: opts, logger: logger}
}

// Request builds the chat request sent for s.
func (g *InsightGenerator) Request(s *analysis.Stats) GenerateRequest {
	return GenerateRequest{
		Model: g.opts.Model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: s.Prompt()},
		},
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	}
}

// Generate asks the runtime for insights on s. It never fails: any error is
// folded into a degraded Insight. The call is bounded by the configured
// timeout and is not retried.
func (g *InsightGenerator) Generate(ctx context.Context, s *analysis.Stats) Insight {
	if g.runtime == nil {
		return g.degrade(ErrNoRuntime)
	}
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.runtime.Generate(ctx, g.Request(s))
	if err != nil {
		return g.degrade(err)
	}
	text := resp.Text()
	if text == "" {
		return g.degrade(errors.New("empty completion"))
	}
	g.logger.Debug("insights generated",
		"provider", g.opts.Provider,
		"model", g.opts.Model,
		"request_id", resp.RequestID,
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed", time.Since(start))
	return Insight{Status: StatusSuccess, Summary: text}
}

func (g *InsightGenerator) degrade(err error) Insight {
	ext := &ExternalServiceError{Provider: g.opts.Provider, Err: err}
	g.logger.Warn("insight generation failed", "provider", g.opts.Provider, "error", err)
	return Insight{
		Status:  StatusError,
		Summary: fmt.Sprintf("Error generating insights: %v", err),
		Err:     ext,
	}
}
