package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stock-portfolio-evaluator/internal/history"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/llm"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// Engine runs the analysis pipeline for a ticker, synthesizes the records
// into a prompt and asks the decider for a verdict.
type Engine struct {
	pipeline interfaces.Pipeline
	decider  interfaces.Decider
	history  *history.Log
	now      func() time.Time
	newRunID func() string
}

var _ interfaces.Engine = (*Engine)(nil)

type Option func(*Engine)

// WithHistory appends every finished evaluation to the given log.
func WithHistory(h *history.Log) Option {
	return func(e *Engine) { e.history = h }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(p interfaces.Pipeline, d interfaces.Decider, opts ...Option) *Engine {
	e := &Engine{
		pipeline: p,
		decider:  d,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Evaluate(ctx context.Context, ticker string) types.Evaluation {
	runID := e.newRunID()
	res := e.pipeline.AnalyzeTicker(ctx, ticker)
	return e.decide(ctx, runID, res)
}

// EvaluatePortfolio evaluates the normalized tickers under one run id and
// returns the evaluations in input order.
func (e *Engine) EvaluatePortfolio(ctx context.Context, tickers []string) ([]types.Evaluation, error) {
	runID := e.newRunID()

	results, err := e.pipeline.AnalyzePortfolio(ctx, tickers)
	if err != nil {
		return nil, err
	}

	out := make([]types.Evaluation, 0, len(results))
	for _, res := range results {
		out = append(out, e.decide(ctx, runID, res))
	}
	return out, nil
}

func (e *Engine) decide(ctx context.Context, runID string, res *types.AnalysisResult) types.Evaluation {
	ev := types.Evaluation{
		RunID:    runID,
		Ticker:   res.Ticker,
		Errors:   append([]string{}, res.Errors...),
		Analysis: res,
	}

	synthesis := Synthesize(res)
	logger.Debug(ctx, "Data synthesis completed", "ticker", res.Ticker, "chars", len(synthesis))

	verdict, err := e.decider.Decide(ctx, res.Ticker, synthesis)
	if err != nil {
		logger.ErrorWithErr(ctx, "Verdict generation failed", err, "ticker", res.Ticker)
		ev.Errors = append(ev.Errors, fmt.Sprintf("Verdict generation: %s", err))
		ev.Verdict = ""
		ev.Report = fmt.Sprintf("Error generating report: %s", err)
	} else {
		ev.Verdict = llm.NormalizeVerdict(verdict.Label)
		ev.Report = verdict.Report
		logger.Verdict(ctx, res.Ticker, ev.Verdict, "run_id", runID, "errors", len(ev.Errors))
	}
	ev.Timestamp = e.now().Format(time.RFC3339)

	if e.history != nil {
		if err := e.history.Append(ev); err != nil {
			logger.Warn(ctx, "Failed to append evaluation history", "ticker", res.Ticker, "error", err.Error())
		}
	}
	return ev
}

// Synthesize renders the five stage records as the prompt body for the decider.
// A stage with no record is written as an empty object.
func Synthesize(res *types.AnalysisResult) string {
	sections := []struct {
		title  string
		record any
		isNil  bool
	}{
		{"Fundamentals", res.Fundamentals, res.Fundamentals == nil},
		{"Technical Indicators", res.Technical, res.Technical == nil},
		{"News & Sentiment", res.News, res.News == nil},
		{"Analyst Ratings", res.AnalystRatings, res.AnalystRatings == nil},
		{"Risk Metrics", res.RiskMetrics, res.RiskMetrics == nil},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock Analysis Summary for %s\n", res.Ticker)
	for _, s := range sections {
		body := "{}"
		if !s.isNil {
			raw, err := json.MarshalIndent(s.record, "", "  ")
			if err != nil {
				body = fmt.Sprintf("{\"error\": %q}", err.Error())
			} else {
				body = string(raw)
			}
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", s.title, body)
	}
	return b.String()
}
