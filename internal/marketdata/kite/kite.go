package kite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// indexAliases maps Yahoo-style index tickers to Kite trading symbols.
var indexAliases = map[string]string{
	"^NSEI":    "NIFTY 50",
	"^NSEBANK": "NIFTY BANK",
	"^CNXIT":   "NIFTY IT",
}

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
	Timeout     time.Duration
	MaxRetries  int
	BaseURI     string
}

// Source reads quotes and daily candles from the Kite Connect REST API.
type Source struct {
	kc         *kiteconnect.Client
	exchange   string
	tokens     *instrumentMapper
	maxRetries int
	now        func() time.Time
}

var _ interfaces.MarketDataSource = (*Source)(nil)

func New(p Params) (*Source, error) {
	if p.APIKey == "" || p.AccessToken == "" {
		return nil, errors.New("kite: api key and access token are required")
	}
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.Timeout > 0 {
		kc.SetHTTPClient(&http.Client{Timeout: p.Timeout})
	}
	if p.BaseURI != "" {
		kc.SetBaseURI(p.BaseURI)
	}
	exchange := p.Exchange
	if exchange == "" {
		exchange = "NSE"
	}
	return &Source{
		kc:         kc,
		exchange:   exchange,
		tokens:     newInstrumentMapper(),
		maxRetries: p.MaxRetries,
		now:        time.Now,
	}, nil
}

// TradingSymbol converts a Yahoo-style ticker (INFY.NS, ^NSEI) to a Kite symbol.
func TradingSymbol(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if alias, ok := indexAliases[t]; ok {
		return alias
	}
	for _, suffix := range []string{".NS", ".BO"} {
		t = strings.TrimSuffix(t, suffix)
	}
	return t
}

func (s *Source) instrument(ticker string) string {
	return s.exchange + ":" + TradingSymbol(ticker)
}

func (s *Source) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries)),
		ctx,
	)
	return backoff.Retry(func() error {
		err := op()
		var kerr kiteconnect.Error
		// auth and input errors are final
		if errors.As(err, &kerr) && kerr.Code >= 400 && kerr.Code < 500 && kerr.Code != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (s *Source) Snapshot(ctx context.Context, ticker string) (types.Snapshot, error) {
	inst := s.instrument(ticker)

	var quote kiteconnect.Quote
	err := s.retry(ctx, func() error {
		var err error
		quote, err = s.kc.GetQuote(inst)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("kite quote for %s: %w", inst, err)
	}

	q, ok := quote[inst]
	if !ok {
		return nil, fmt.Errorf("kite quote for %s: instrument not in response", inst)
	}

	if q.InstrumentToken != 0 {
		s.tokens.addMapping(TradingSymbol(ticker), q.InstrumentToken)
	}

	return types.Snapshot{
		"symbol":              TradingSymbol(ticker),
		"currentPrice":        q.LastPrice,
		"open":                q.OHLC.Open,
		"dayHigh":             q.OHLC.High,
		"dayLow":              q.OHLC.Low,
		"previousClose":       q.OHLC.Close,
		"regularMarketVolume": q.Volume,
	}, nil
}

func (s *Source) tokenFor(ctx context.Context, ticker string) (int, error) {
	symbol := TradingSymbol(ticker)
	if token, ok := s.tokens.getToken(symbol); ok {
		return token, nil
	}
	if !s.tokens.isLoaded() {
		var instruments kiteconnect.Instruments
		err := s.retry(ctx, func() error {
			var err error
			instruments, err = s.kc.GetInstrumentsByExchange(s.exchange)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("kite instruments for %s: %w", s.exchange, err)
		}
		mapping := make(map[string]int, len(instruments))
		for _, in := range instruments {
			mapping[in.Tradingsymbol] = in.InstrumentToken
		}
		s.tokens.load(mapping)
		logger.Debug(ctx, "Loaded Kite instruments", "exchange", s.exchange, "count", len(mapping))
	}
	if token, ok := s.tokens.getToken(symbol); ok {
		return token, nil
	}
	return 0, fmt.Errorf("kite: no instrument token for %s:%s", s.exchange, symbol)
}

func (s *Source) History(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	token, err := s.tokenFor(ctx, ticker)
	if err != nil {
		return types.PriceSeries{}, err
	}

	to := s.now()
	from := to.AddDate(0, 0, -days)

	var candles []kiteconnect.HistoricalData
	err = s.retry(ctx, func() error {
		var err error
		candles, err = s.kc.GetHistoricalData(token, "day", from, to, false, false)
		return err
	})
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("kite history for %s: %w", ticker, err)
	}

	series := types.PriceSeries{Ticker: ticker, HasVolume: true}
	for _, c := range candles {
		d := c.Date.Time
		series.Bars = append(series.Bars, types.PriceBar{
			Date:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		})
	}
	return series, nil
}
