package analysis

import (
	"context"
	"errors"
	"time"

	"stock-portfolio-evaluator/internal/types"
)

type fakeMarket struct {
	snapshots map[string]types.Snapshot
	history   map[string]types.PriceSeries
	snapErr   error
	histErr   map[string]error
	histDays  map[string][]int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		snapshots: map[string]types.Snapshot{},
		history:   map[string]types.PriceSeries{},
		histErr:   map[string]error{},
		histDays:  map[string][]int{},
	}
}

func (f *fakeMarket) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	return f.snapshots[ticker], nil
}

func (f *fakeMarket) History(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	f.histDays[ticker] = append(f.histDays[ticker], days)
	if err := f.histErr[ticker]; err != nil {
		return types.PriceSeries{}, err
	}
	return f.history[ticker], nil
}

// series builds daily bars from closes, starting 2024-01-01.
func series(ticker string, closes ...float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := types.PriceSeries{Ticker: ticker, HasVolume: true}
	for i, c := range closes {
		s.Bars = append(s.Bars, types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

type fakeNews struct {
	res   types.NewsSearchResult
	err   error
	query types.NewsQuery
}

func (f *fakeNews) Search(ctx context.Context, q types.NewsQuery) (types.NewsSearchResult, error) {
	f.query = q
	return f.res, f.err
}

type fakeClassifier struct {
	byText map[string]types.Sentiment
	err    error
	calls  []string
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (types.Sentiment, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return types.Sentiment{}, f.err
	}
	if s, ok := f.byText[text]; ok {
		return s, nil
	}
	return types.Sentiment{Label: types.SentimentNeutral, Confidence: 0.9}, nil
}

var errUpstream = errors.New("upstream unavailable")
