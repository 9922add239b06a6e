package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/analysis"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/marketdata/static"
	"stock-portfolio-evaluator/internal/sentiment"
	"stock-portfolio-evaluator/internal/types"
)

type cannedNews struct {
	err error
}

func (c cannedNews) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	if c.err != nil {
		return types.NewsSearchResult{}, c.err
	}
	return types.NewsSearchResult{TotalResults: 2, Articles: []types.NewsArticle{
		{Title: q.Query + " shares rise on strong results", Source: "Wire", PublishedAt: "2024-06-14T08:00:00Z"},
		{Title: q.Query + " falls after weak guidance", Source: "Wire", PublishedAt: "2024-06-13T08:00:00Z"},
	}}, nil
}

func fixedMarket() interfaces.MarketDataSource {
	return static.New().WithClock(func() time.Time {
		return time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	})
}

func newTestPipeline(news interfaces.NewsSource, opts Options) *Pipeline {
	analyzers := NewAnalyzers(fixedMarket(), news, sentiment.NewLexicon(), analysis.DefaultSettings())
	return New(analyzers.Stages(), opts)
}

func TestAnalyzeTickerAllStages(t *testing.T) {
	res := newTestPipeline(cannedNews{}, Options{}).AnalyzeTicker(context.Background(), "INFY.NS")

	assert.Equal(t, "INFY.NS", res.Ticker)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Fundamentals)
	require.NotNil(t, res.Technical)
	require.NotNil(t, res.News)
	require.NotNil(t, res.AnalystRatings)
	require.NotNil(t, res.RiskMetrics)
	assert.Nil(t, res.RiskMetrics.Degraded())
	assert.Len(t, res.News.Articles, 2)
}

func TestStageIsolation(t *testing.T) {
	res := newTestPipeline(cannedNews{err: errors.New("connection refused")}, Options{}).
		AnalyzeTicker(context.Background(), "INFY.NS")

	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "News fetch: "), res.Errors[0])
	assert.Contains(t, res.Errors[0], "connection refused")

	require.NotNil(t, res.News)
	require.NotNil(t, res.News.Degraded())
	assert.Equal(t, types.ErrTypeNews, res.News.Failure.ErrorType)

	assert.Nil(t, res.Fundamentals.Degraded())
	assert.Nil(t, res.Technical.Degraded())
	assert.Nil(t, res.AnalystRatings.Degraded())
	assert.Nil(t, res.RiskMetrics.Degraded())
}

func TestAnalyzeTickerIsIdempotent(t *testing.T) {
	p := newTestPipeline(cannedNews{}, Options{})

	a, err := json.Marshal(p.AnalyzeTicker(context.Background(), "TCS.NS"))
	require.NoError(t, err)
	b, err := json.Marshal(p.AnalyzeTicker(context.Background(), "TCS.NS"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestParallelStagesMatchSequential(t *testing.T) {
	seq, err := json.Marshal(newTestPipeline(cannedNews{err: errors.New("down")}, Options{}).AnalyzeTicker(context.Background(), "TCS.NS"))
	require.NoError(t, err)
	par, err := json.Marshal(newTestPipeline(cannedNews{err: errors.New("down")}, Options{ParallelStages: true}).AnalyzeTicker(context.Background(), "TCS.NS"))
	require.NoError(t, err)
	assert.JSONEq(t, string(seq), string(par))
}

func okStage(name string, set func(*types.AnalysisResult)) Stage {
	return Stage{Name: name, Run: func(ctx context.Context, ticker string) (Outcome, error) {
		return Outcome{Apply: set}, nil
	}}
}

func TestStageErrorAndPanicLeaveFieldUnset(t *testing.T) {
	stages := []Stage{
		okStage(StageFundamental, func(r *types.AnalysisResult) { r.Fundamentals = &types.FundamentalsRecord{Ticker: r.Ticker} }),
		{Name: StageTechnical, Run: func(ctx context.Context, ticker string) (Outcome, error) {
			panic("index out of range")
		}},
		{Name: StageNews, Run: func(ctx context.Context, ticker string) (Outcome, error) {
			return Outcome{}, errors.New("quota exhausted")
		}},
		NewStage(StageRatings, func(ctx context.Context, ticker string) types.AnalystRatingRecord {
			return types.AnalystRatingRecord{Ticker: ticker, Failure: &types.Failure{Error: "no data", ErrorType: types.ErrTypeRatings}}
		}, func(r *types.AnalysisResult, rec *types.AnalystRatingRecord) { r.AnalystRatings = rec }),
	}

	for _, parallel := range []bool{false, true} {
		res := New(stages, Options{ParallelStages: parallel}).AnalyzeTicker(context.Background(), "X")

		assert.NotNil(t, res.Fundamentals)
		assert.Nil(t, res.Technical)
		assert.Nil(t, res.News)
		require.NotNil(t, res.AnalystRatings, "degraded records are stored")
		assert.Nil(t, res.RiskMetrics)

		assert.Equal(t, []string{
			"Technical analysis: panic: index out of range",
			"News fetch: quota exhausted",
			"Analyst ratings: no data",
		}, res.Errors)

		b, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"technical":null`)
	}
}

func TestAnalyzePortfolio(t *testing.T) {
	var calls atomic.Int32
	stages := []Stage{{Name: StageFundamental, Run: func(ctx context.Context, ticker string) (Outcome, error) {
		calls.Add(1)
		if ticker == "BAD" {
			return Outcome{}, errors.New("boom")
		}
		return Outcome{Apply: func(r *types.AnalysisResult) { r.Fundamentals = &types.FundamentalsRecord{Ticker: ticker} }}, nil
	}}}

	for _, workers := range []int{1, 3} {
		calls.Store(0)
		results, err := New(stages, Options{Workers: workers}).
			AnalyzePortfolio(context.Background(), []string{" aapl ", "BAD", "msft", "AAPL", "", "tsla"})
		require.NoError(t, err)

		require.Len(t, results, 4)
		assert.Equal(t, int32(4), calls.Load())
		var tickers []string
		for _, r := range results {
			tickers = append(tickers, r.Ticker)
		}
		assert.Equal(t, []string{"AAPL", "BAD", "MSFT", "TSLA"}, tickers)

		assert.Equal(t, []string{"Fundamental analysis: boom"}, results[1].Errors)
		assert.Nil(t, results[1].Fundamentals)
		for _, i := range []int{0, 2, 3} {
			assert.Empty(t, results[i].Errors)
			assert.Equal(t, results[i].Ticker, results[i].Fundamentals.Ticker)
		}
	}
}

func TestAnalyzePortfolioRequiresTickers(t *testing.T) {
	_, err := New(nil, Options{}).AnalyzePortfolio(context.Background(), []string{" ", ""})
	assert.ErrorIs(t, err, ErrNoTickers)
}

func TestNormalizeTickers(t *testing.T) {
	assert.Equal(t, []string{"INFY.NS", "TCS.NS"}, NormalizeTickers([]string{"infy.ns", " TCS.NS", "INFY.NS "}))
	assert.Empty(t, NormalizeTickers(nil))
}
