package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"stock-portfolio-evaluator/internal/api"
	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// summaryModules are merged in this order; the first module to carry a key wins.
var summaryModules = []string{
	"financialData",
	"summaryDetail",
	"defaultKeyStatistics",
	"price",
	"assetProfile",
}

// ChartFetcher returns daily bars for symbol between start and end.
type ChartFetcher func(ctx context.Context, symbol string, start, end time.Time) ([]*finance.ChartBar, error)

type Params struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// Source reads quote snapshots from the quoteSummary endpoint and daily
// history from the chart API.
type Source struct {
	client     *api.Client
	fetchChart ChartFetcher
	maxRetries int
	now        func() time.Time
}

var _ interfaces.MarketDataSource = (*Source)(nil)

func New(p Params) *Source {
	client := api.NewClient(
		api.WithBaseURL(p.BaseURL),
		api.WithTimeout(p.Timeout),
		api.WithRetries(p.MaxRetries),
		api.WithRateLimit(p.RequestsPerSecond),
		api.WithHeaders(api.YahooFinanceHeaders()),
		api.WithLogging(true),
	)
	return &Source{
		client:     client,
		fetchChart: chartBars,
		maxRetries: p.MaxRetries,
		now:        time.Now,
	}
}

// WithChartFetcher replaces the chart API call.
func (s *Source) WithChartFetcher(f ChartFetcher) *Source {
	s.fetchChart = f
	return s
}

func (s *Source) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	resp, err := s.client.GET(ctx,
		"/v10/finance/quoteSummary/"+url.PathEscape(ticker),
		map[string]string{"modules": strings.Join(summaryModules, ",")},
	)
	if err != nil {
		return nil, fmt.Errorf("quote summary for %s: %w", ticker, err)
	}

	var body struct {
		QuoteSummary struct {
			Result []map[string]any `json:"result"`
			Error  *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteSummary"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return nil, err
	}
	if e := body.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("quote summary for %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: empty result", ticker)
	}

	return flattenSummary(body.QuoteSummary.Result[0]), nil
}

// flattenSummary merges the module objects into one flat snapshot and
// unwraps {"raw": x, "fmt": "..."} values to x. Empty wrappers are dropped.
func flattenSummary(result map[string]any) types.Snapshot {
	snap := types.Snapshot{}
	for _, module := range summaryModules {
		fields, ok := result[module].(map[string]any)
		if !ok {
			continue
		}
		for key, raw := range fields {
			if _, exists := snap[key]; exists {
				continue
			}
			v, ok := unwrap(raw)
			if !ok {
				continue
			}
			snap[key] = v
		}
	}
	return snap
}

func unwrap(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		r, ok := val["raw"]
		if !ok || r == nil {
			return nil, false
		}
		return r, true
	default:
		return val, true
	}
}

// History returns daily bars covering the last days calendar days.
func (s *Source) History(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	end := s.now()
	start := end.AddDate(0, 0, -days)

	var bars []*finance.ChartBar
	op := func() error {
		var err error
		bars, err = s.fetchChart(ctx, ticker, start, end)
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return types.PriceSeries{}, fmt.Errorf("chart history for %s: %w", ticker, err)
	}

	return toSeries(ticker, bars), nil
}

func toSeries(ticker string, bars []*finance.ChartBar) types.PriceSeries {
	series := types.PriceSeries{Ticker: ticker, HasVolume: true}
	for _, b := range bars {
		if b == nil || b.Close.IsZero() {
			continue
		}
		ts := time.Unix(int64(b.Timestamp), 0).UTC()
		series.Bars = append(series.Bars, types.PriceBar{
			Date:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:   toFloat(b.Open),
			High:   toFloat(b.High),
			Low:    toFloat(b.Low),
			Close:  toFloat(b.Close),
			Volume: float64(b.Volume),
		})
	}
	return series
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func chartBars(ctx context.Context, symbol string, start, end time.Time) ([]*finance.ChartBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, backoff.Permanent(err)
	}
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var bars []*finance.ChartBar
	for iter.Next() {
		bars = append(bars, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		// unknown symbols do not get better with retries
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return bars, nil
}
