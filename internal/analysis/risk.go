package analysis

import (
	"context"
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/ta"
	"stock-portfolio-evaluator/internal/types"
)

const (
	VolatilityLow      = "Low Volatility"
	VolatilityModerate = "Moderate Volatility"
	VolatilityHigh     = "High Volatility"
)

// RiskAnalyzer measures return dispersion and market sensitivity against a benchmark index.
type RiskAnalyzer struct {
	market   interfaces.MarketDataSource
	settings Settings
}

func NewRiskAnalyzer(market interfaces.MarketDataSource, settings Settings) *RiskAnalyzer {
	return &RiskAnalyzer{market: market, settings: settings}
}

func (a *RiskAnalyzer) Analyze(ctx context.Context, ticker string) types.RiskRecord {
	rec, err := a.analyze(ctx, ticker)
	if err != nil {
		logger.ErrorWithErr(ctx, "Risk calculation failed", err, "ticker", ticker)
		return types.RiskRecord{Ticker: ticker, Failure: types.NewFailure(err, types.ErrTypeRisk)}
	}
	return rec
}

func (a *RiskAnalyzer) analyze(ctx context.Context, ticker string) (types.RiskRecord, error) {
	days := a.settings.RiskLookbackDays

	hist, err := a.market.History(ctx, ticker, days)
	if err != nil {
		return types.RiskRecord{}, fmt.Errorf("fetch history: %w", err)
	}
	if hist.Len() < 2 {
		return types.RiskRecord{}, fmt.Errorf("insufficient data for %s", ticker)
	}

	returns := ta.DailyReturns(hist)
	if len(returns) == 0 {
		return types.RiskRecord{}, fmt.Errorf("could not calculate returns for %s", ticker)
	}

	// a single return has no sample deviation; the other metrics still apply
	volatility := ta.AnnualizedVolatility(returns)
	var sharpe *float64
	if ta.Available(volatility) {
		sharpe = ptr(ta.Round(ta.SharpeRatio(returns, ta.RiskFreeRate), 2))
	}

	bench, err := a.market.History(ctx, a.settings.BenchmarkIndex, days)
	if err != nil {
		return types.RiskRecord{}, fmt.Errorf("fetch benchmark %s: %w", a.settings.BenchmarkIndex, err)
	}
	beta := ta.Beta(returns, ta.DailyReturns(bench))
	if !ta.Available(beta) {
		logger.Debug(ctx, "Beta unavailable", "ticker", ticker, "benchmark", a.settings.BenchmarkIndex, "benchmark_bars", bench.Len())
	}

	return types.RiskRecord{
		Ticker:               ticker,
		VolatilityAnnual:     ptr(ta.Round(volatility, 4)),
		Beta:                 ptr(ta.Round(beta, 2)),
		SharpeRatio:          sharpe,
		VaR95:                ta.Round(ta.ValueAtRisk95(returns), 4),
		MaxDrawdown:          ta.Round(ta.MaxDrawdownProxy(returns), 4),
		VolatilityAssessment: VolatilityAssessment(volatility),
	}, nil
}

// VolatilityAssessment buckets annualized volatility: < 0.20 low, < 0.35 moderate.
// An unavailable (NaN) volatility falls through to high.
func VolatilityAssessment(volatility float64) string {
	switch {
	case volatility < 0.20:
		return VolatilityLow
	case volatility < 0.35:
		return VolatilityModerate
	default:
		return VolatilityHigh
	}
}
