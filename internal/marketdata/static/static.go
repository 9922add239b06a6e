package static

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// Source generates repeatable synthetic market data for offline runs.
// The same ticker always yields the same snapshot and price path for a given day.
type Source struct {
	now func() time.Time
}

var _ interfaces.MarketDataSource = (*Source)(nil)

func New() *Source {
	return &Source{now: time.Now}
}

// WithClock pins "today", mainly for tests.
func (s *Source) WithClock(now func() time.Time) *Source {
	s.now = now
	return s
}

func seedFor(ticker string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(ticker)))
	return int64(h.Sum64() & math.MaxInt64)
}

func basePrice(ticker string) float64 {
	r := rand.New(rand.NewSource(seedFor(ticker)))
	return 100 + r.Float64()*2900
}

func (s *Source) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewSource(seedFor(ticker) + 1))

	series := s.series(ticker, 365)
	last := series.Bars[len(series.Bars)-1].Close
	hi, lo := last, last
	for _, b := range series.Bars {
		hi = math.Max(hi, b.High)
		lo = math.Min(lo, b.Low)
	}
	eps := last / (12 + r.Float64()*25)
	shares := 1e8 + r.Float64()*5e9
	recs := []string{"strongBuy", "buy", "hold", "sell", "strongSell"}

	name := strings.SplitN(strings.ToUpper(ticker), ".", 2)[0]
	return types.Snapshot{
		"longName":                     name + " Limited",
		"sector":                       "Synthetic",
		"industry":                     "Synthetic Data",
		"marketCap":                    math.Round(last * shares),
		"trailingPE":                   round2(last / eps),
		"forwardPE":                    round2(last / (eps * (1 + r.Float64()*0.2))),
		"priceToSalesTrailing12Months": round2(1 + r.Float64()*8),
		"priceToBook":                  round2(1 + r.Float64()*10),
		"trailingEps":                  round2(eps),
		"earningsGrowth":               round2(r.Float64()*0.4 - 0.1),
		"totalRevenue":                 math.Round(shares * eps * (3 + r.Float64()*5)),
		"revenuePerShare":              round2(eps * 4),
		"grossProfits":                 math.Round(shares * eps * 2),
		"operatingMargins":             round2(0.05 + r.Float64()*0.3),
		"profitMargins":                round2(0.02 + r.Float64()*0.25),
		"debtToEquity":                 round2(r.Float64() * 150),
		"currentRatio":                 round2(0.8 + r.Float64()*2),
		"returnOnEquity":               round2(r.Float64() * 0.3),
		"returnOnAssets":               round2(r.Float64() * 0.15),
		"dividendYield":                round2(r.Float64() * 0.04),
		"payoutRatio":                  round2(r.Float64() * 0.6),
		"bookValue":                    round2(last / (1 + r.Float64()*10)),
		"fiftyTwoWeekHigh":             round2(hi),
		"fiftyTwoWeekLow":              round2(lo),
		"currentPrice":                 round2(last),
		"targetMeanPrice":              round2(last * (0.9 + r.Float64()*0.3)),
		"targetHighPrice":              round2(last * 1.3),
		"targetLowPrice":               round2(last * 0.8),
		"numberOfAnalystOpinions":      5 + r.Intn(35),
		"recommendationKey":            recs[r.Intn(len(recs))],
	}, nil
}

func (s *Source) History(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return types.PriceSeries{}, err
	}
	return s.series(ticker, days), nil
}

// series walks a seeded random path over the weekdays of the last days calendar days.
func (s *Source) series(ticker string, days int) types.PriceSeries {
	now := s.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)

	r := rand.New(rand.NewSource(seedFor(ticker)))
	price := basePrice(ticker)
	drift := (r.Float64() - 0.45) * 0.002
	vol := 0.01 + r.Float64()*0.02

	out := types.PriceSeries{Ticker: ticker, HasVolume: true}
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		// seeding per date keeps a day's return identical across windows
		step := dayRand(ticker, d)
		open := price
		price = price * (1 + drift + vol*step.NormFloat64())
		if price < 1 {
			price = 1
		}
		high := math.Max(open, price) * (1 + step.Float64()*0.01)
		low := math.Min(open, price) * (1 - step.Float64()*0.01)
		out.Bars = append(out.Bars, types.PriceBar{
			Date:   d,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: math.Round(1e5 + step.Float64()*5e6),
		})
	}
	return out
}

func dayRand(ticker string, d time.Time) *rand.Rand {
	return rand.New(rand.NewSource(seedFor(ticker) ^ d.Unix()))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
