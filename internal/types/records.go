package types

import "encoding/json"

// ErrorType tags a degraded analyzer record.
type ErrorType string

const (
	ErrTypeFundamental ErrorType = "fundamental_analysis_failed"
	ErrTypeTechnical   ErrorType = "technical_analysis_failed"
	ErrTypeNews        ErrorType = "news_processing_failed"
	ErrTypeRatings     ErrorType = "analyst_ratings_failed"
	ErrTypeRisk        ErrorType = "risk_calculation_failed"
)

// Failure marks a record as degraded. A degraded record serializes only the
// ticker plus these two fields (and a couple of per-record neutral defaults).
type Failure struct {
	Error     string    `json:"error"`
	ErrorType ErrorType `json:"error_type"`
}

func NewFailure(err error, errType ErrorType) *Failure {
	return &Failure{Error: err.Error(), ErrorType: errType}
}

type degradedRecord struct {
	Ticker string `json:"ticker"`
	Failure
}

// FundamentalsRecord holds valuation and profitability figures from one snapshot.
type FundamentalsRecord struct {
	Ticker          string   `json:"ticker"`
	CompanyName     string   `json:"company_name"`
	Sector          string   `json:"sector"`
	Industry        string   `json:"industry"`
	MarketCap       float64  `json:"market_cap"`
	PERatio         *float64 `json:"pe_ratio"`
	ForwardPE       *float64 `json:"forward_pe"`
	PSRatio         *float64 `json:"ps_ratio"`
	PBRatio         *float64 `json:"pb_ratio"`
	EPS             *float64 `json:"eps"`
	EarningsGrowth  *float64 `json:"earnings_growth"`
	Revenue         *float64 `json:"revenue"`
	RevenuePerShare *float64 `json:"revenue_per_share"`
	GrossProfit     *float64 `json:"gross_profit"`
	OperatingMargin *float64 `json:"operating_margin"`
	ProfitMargin    *float64 `json:"profit_margin"`
	DebtToEquity    *float64 `json:"debt_to_equity"`
	CurrentRatio    *float64 `json:"current_ratio"`
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`
	DividendYield   *float64 `json:"dividend_yield"`
	PayoutRatio     *float64 `json:"payout_ratio"`
	BookValue       *float64 `json:"book_value"`
	FiftyTwoWeekHi  *float64 `json:"52_week_high"`
	FiftyTwoWeekLo  *float64 `json:"52_week_low"`
	CurrentPrice    *float64 `json:"current_price"`

	Failure *Failure `json:"-"`
}

func (r FundamentalsRecord) Degraded() *Failure { return r.Failure }

func (r FundamentalsRecord) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(degradedRecord{Ticker: r.Ticker, Failure: *r.Failure})
	}
	type full FundamentalsRecord
	return json.Marshal(full(r))
}

// TechnicalRecord holds trend, momentum and volume indicators over a lookback window.
type TechnicalRecord struct {
	Ticker             string   `json:"ticker"`
	AnalysisPeriodDays int      `json:"analysis_period_days"`
	CurrentPrice       *float64 `json:"current_price"`
	PriceChange        *float64 `json:"price_change"`
	PriceChangePct     *float64 `json:"price_change_pct"`
	SMA50              *float64 `json:"sma_50"`
	SMA200             *float64 `json:"sma_200"`
	GoldenCrossStatus  *string  `json:"golden_cross_status"`
	RSI                *float64 `json:"rsi"`
	RSISignal          *string  `json:"rsi_signal"`
	AvgVolume          *float64 `json:"avg_volume"`
	CurrentVolume      *float64 `json:"current_volume"`
	VolumeTrend        *string  `json:"volume_trend"`
	High52w            *float64 `json:"high_52w"`
	Low52w             *float64 `json:"low_52w"`

	Failure *Failure `json:"-"`
}

func (r TechnicalRecord) Degraded() *Failure { return r.Failure }

func (r TechnicalRecord) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(degradedRecord{Ticker: r.Ticker, Failure: *r.Failure})
	}
	type full TechnicalRecord
	return json.Marshal(full(r))
}

// ArticleSentiment is one scored news article.
type ArticleSentiment struct {
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	PublishedAt    string  `json:"published_at"`
	URL            string  `json:"url"`
	Description    string  `json:"description"`
	SentimentScore float64 `json:"sentiment_score"`
}

// NewsRecord aggregates sentiment over recent articles.
type NewsRecord struct {
	Ticker                string             `json:"ticker"`
	TotalArticlesFound    int                `json:"total_articles_found"`
	ArticlesFetched       int                `json:"articles_fetched"`
	Articles              []ArticleSentiment `json:"articles"`
	OverallSentimentScore float64            `json:"overall_sentiment_score"`
	SentimentLabel        string             `json:"sentiment_label"`

	Failure *Failure `json:"-"`
}

func (r NewsRecord) Degraded() *Failure { return r.Failure }

func (r NewsRecord) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(struct {
			degradedRecord
			Articles              []ArticleSentiment `json:"articles"`
			OverallSentimentScore float64            `json:"overall_sentiment_score"`
		}{
			degradedRecord:        degradedRecord{Ticker: r.Ticker, Failure: *r.Failure},
			Articles:              []ArticleSentiment{},
			OverallSentimentScore: 0,
		})
	}
	type full NewsRecord
	out := full(r)
	if out.Articles == nil {
		out.Articles = []ArticleSentiment{}
	}
	return json.Marshal(out)
}

// AnalystRatingRecord holds consensus price targets and recommendation.
type AnalystRatingRecord struct {
	Ticker            string   `json:"ticker"`
	TargetPrice       *float64 `json:"target_price"`
	TargetPriceHigh   *float64 `json:"target_price_high"`
	TargetPriceLow    *float64 `json:"target_price_low"`
	NumberOfAnalysts  int      `json:"number_of_analysts"`
	RecommendationKey string   `json:"recommendation_key"`
	Recommendation    string   `json:"recommendation"`

	Failure *Failure `json:"-"`
}

func (r AnalystRatingRecord) Degraded() *Failure { return r.Failure }

func (r AnalystRatingRecord) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(struct {
			degradedRecord
			Recommendation string `json:"recommendation"`
		}{
			degradedRecord: degradedRecord{Ticker: r.Ticker, Failure: *r.Failure},
			Recommendation: "unknown",
		})
	}
	type full AnalystRatingRecord
	return json.Marshal(full(r))
}

// RiskRecord holds return-distribution risk figures against a benchmark.
type RiskRecord struct {
	Ticker               string   `json:"ticker"`
	VolatilityAnnual     *float64 `json:"volatility_annual"`
	Beta                 *float64 `json:"beta"`
	SharpeRatio          *float64 `json:"sharpe_ratio"`
	VaR95                float64  `json:"var_95"`
	MaxDrawdown          float64  `json:"max_drawdown"`
	VolatilityAssessment string   `json:"volatility_assessment"`

	Failure *Failure `json:"-"`
}

func (r RiskRecord) Degraded() *Failure { return r.Failure }

func (r RiskRecord) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(degradedRecord{Ticker: r.Ticker, Failure: *r.Failure})
	}
	type full RiskRecord
	return json.Marshal(full(r))
}

// AnalysisResult is the consolidated per-ticker output of the pipeline.
// A nil stage field means the stage did not produce a record at all.
type AnalysisResult struct {
	Ticker         string               `json:"ticker"`
	Fundamentals   *FundamentalsRecord  `json:"fundamentals"`
	Technical      *TechnicalRecord     `json:"technical"`
	News           *NewsRecord          `json:"news"`
	AnalystRatings *AnalystRatingRecord `json:"analyst_ratings"`
	RiskMetrics    *RiskRecord          `json:"risk_metrics"`
	Errors         []string             `json:"errors"`
}

// NewAnalysisResult returns an empty result with every stage unset.
func NewAnalysisResult(ticker string) *AnalysisResult {
	return &AnalysisResult{Ticker: ticker, Errors: []string{}}
}
