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
	CrossGolden = "Golden Cross (Bullish)"
	CrossDeath  = "Death Cross (Bearish)"

	RSIOverboughtSignal = "Overbought - Potential Sell Signal"
	RSIOversoldSignal   = "Oversold - Potential Buy Signal"
	RSINeutralSignal    = "Neutral"

	VolumeHigh   = "High"
	VolumeNormal = "Normal"

	// highVolumeRatio is the multiple of mean volume the latest bar must exceed
	highVolumeRatio = 1.2
)

// TechnicalAnalyzer computes trend, momentum and volume indicators over daily closes.
type TechnicalAnalyzer struct {
	market   interfaces.MarketDataSource
	settings Settings
}

func NewTechnicalAnalyzer(market interfaces.MarketDataSource, settings Settings) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{market: market, settings: settings}
}

func (a *TechnicalAnalyzer) Analyze(ctx context.Context, ticker string) types.TechnicalRecord {
	hist, err := a.market.History(ctx, ticker, a.settings.TechnicalLookbackDays)
	if err == nil && hist.Empty() {
		err = fmt.Errorf("no historical data available for %s", ticker)
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Technical analysis failed", err, "ticker", ticker)
		return types.TechnicalRecord{Ticker: ticker, Failure: types.NewFailure(err, types.ErrTypeTechnical)}
	}
	return a.indicators(ticker, hist)
}

func (a *TechnicalAnalyzer) indicators(ticker string, hist types.PriceSeries) types.TechnicalRecord {
	prices := hist.Closes()
	s := a.settings

	rec := types.TechnicalRecord{
		Ticker:             ticker,
		AnalysisPeriodDays: s.TechnicalLookbackDays,
		CurrentPrice:       ptr(prices[len(prices)-1]),
		SMA50:              ptr(ta.SMA(prices, s.SMAShort)),
		SMA200:             ptr(ta.SMA(prices, s.SMALong)),
		RSI:                ptr(ta.RSI(prices, s.RSIPeriod)),
	}

	if len(prices) > 1 {
		change := prices[len(prices)-1] - prices[0]
		pct := 0.0
		if prices[0] != 0 {
			pct = change / prices[0] * 100
		}
		rec.PriceChange = &change
		rec.PriceChangePct = &pct
	}

	if rec.SMA50 != nil && rec.SMA200 != nil {
		switch {
		case *rec.SMA50 > *rec.SMA200:
			rec.GoldenCrossStatus = strPtr(CrossGolden)
		case *rec.SMA50 < *rec.SMA200:
			rec.GoldenCrossStatus = strPtr(CrossDeath)
		}
	}

	if rec.RSI != nil {
		rec.RSISignal = strPtr(RSISignal(*rec.RSI, s.RSIOverbought, s.RSIOversold))
	}

	if hist.HasVolume {
		volumes := hist.Volumes()
		avg := ta.Mean(volumes)
		current := volumes[len(volumes)-1]
		rec.AvgVolume = ptr(avg)
		rec.CurrentVolume = &current
		rec.VolumeTrend = strPtr(VolumeTrend(current, avg))
	}

	highs := make([]float64, hist.Len())
	lows := make([]float64, hist.Len())
	for i, b := range hist.Bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	rec.High52w = ptr(ta.Max(highs))
	rec.Low52w = ptr(ta.Min(lows))

	return rec
}

// RSISignal maps an RSI reading onto a trading signal; both thresholds are inclusive.
func RSISignal(rsi, overbought, oversold float64) string {
	switch {
	case rsi >= overbought:
		return RSIOverboughtSignal
	case rsi <= oversold:
		return RSIOversoldSignal
	default:
		return RSINeutralSignal
	}
}

// VolumeTrend is High only when current strictly exceeds 1.2x the mean.
func VolumeTrend(current, avg float64) string {
	if current > avg*highVolumeRatio {
		return VolumeHigh
	}
	return VolumeNormal
}
