package analysis

import (
	"context"
	"fmt"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// latestCloseWindowDays spans weekends and exchange holidays so the last
// session's close is always inside the window.
const latestCloseWindowDays = 7

// FundamentalAnalyzer extracts valuation and profitability figures from a quote snapshot.
type FundamentalAnalyzer struct {
	market interfaces.MarketDataSource
}

func NewFundamentalAnalyzer(market interfaces.MarketDataSource) *FundamentalAnalyzer {
	return &FundamentalAnalyzer{market: market}
}

func (a *FundamentalAnalyzer) Analyze(ctx context.Context, ticker string) types.FundamentalsRecord {
	rec, err := a.analyze(ctx, ticker)
	if err != nil {
		logger.ErrorWithErr(ctx, "Fundamental analysis failed", err, "ticker", ticker)
		return types.FundamentalsRecord{Ticker: ticker, Failure: types.NewFailure(err, types.ErrTypeFundamental)}
	}
	return rec
}

func (a *FundamentalAnalyzer) analyze(ctx context.Context, ticker string) (types.FundamentalsRecord, error) {
	info, err := a.market.Snapshot(ctx, ticker)
	if err != nil {
		return types.FundamentalsRecord{}, fmt.Errorf("fetch snapshot: %w", err)
	}

	rec := types.FundamentalsRecord{
		Ticker:          ticker,
		CompanyName:     info.String("N/A", "longName"),
		Sector:          info.String("N/A", "sector"),
		Industry:        info.String("N/A", "industry"),
		MarketCap:       info.FloatOr(0, "marketCap"),
		PERatio:         info.Float("trailingPE"),
		ForwardPE:       info.Float("forwardPE"),
		PSRatio:         info.Float("priceToSalesTrailing12Months"),
		PBRatio:         info.Float("priceToBook"),
		EPS:             info.Float("trailingEps"),
		EarningsGrowth:  info.Float("earningsGrowth"),
		Revenue:         info.Float("totalRevenue"),
		RevenuePerShare: info.Float("revenuePerShare"),
		GrossProfit:     info.Float("grossProfits"),
		OperatingMargin: info.Float("operatingMargins"),
		ProfitMargin:    info.Float("profitMargins"),
		DebtToEquity:    info.Float("debtToEquity"),
		CurrentRatio:    info.Float("currentRatio"),
		ROE:             info.Float("returnOnEquity"),
		ROA:             info.Float("returnOnAssets"),
		DividendYield:   info.Float("dividendYield"),
		PayoutRatio:     info.Float("payoutRatio"),
		BookValue:       info.Float("bookValue"),
		FiftyTwoWeekHi:  info.Float("fiftyTwoWeekHigh"),
		FiftyTwoWeekLo:  info.Float("fiftyTwoWeekLow"),
		CurrentPrice:    info.Float("currentPrice"),
	}

	if rec.CurrentPrice == nil || *rec.CurrentPrice == 0 {
		hist, err := a.market.History(ctx, ticker, latestCloseWindowDays)
		if err != nil {
			return types.FundamentalsRecord{}, fmt.Errorf("fetch latest close: %w", err)
		}
		if !hist.Empty() {
			last := hist.Bars[hist.Len()-1].Close
			rec.CurrentPrice = &last
		}
	}

	return rec, nil
}
