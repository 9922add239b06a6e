package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "financialData": {
        "currentPrice": {"raw": 1510.5, "fmt": "1,510.50"},
        "targetMeanPrice": {"raw": 1700, "fmt": "1,700.00"},
        "recommendationKey": "buy",
        "numberOfAnalystOpinions": {"raw": 38, "fmt": "38"},
        "debtToEquity": {}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 24.1, "fmt": "24.10"},
        "marketCap": {"raw": 6250000000000, "fmt": "6.25T"}
      },
      "price": {
        "longName": "Infosys Limited",
        "marketCap": {"raw": 1, "fmt": "1"}
      },
      "assetProfile": {"sector": "Technology", "industry": "Information Technology Services"}
    }],
    "error": null
  }
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Params{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestSnapshotFlattensModules(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/INFY.NS", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "financialData")
		_, _ = w.Write([]byte(summaryBody))
	})

	snap, err := src.Snapshot(context.Background(), "INFY.NS")
	require.NoError(t, err)

	assert.Equal(t, "Infosys Limited", snap.String("N/A", "longName"))
	assert.Equal(t, "Technology", snap.String("N/A", "sector"))
	assert.Equal(t, "buy", snap.String("none", "recommendationKey"))
	assert.Equal(t, 38, snap.Int(0, "numberOfAnalystOpinions"))
	require.NotNil(t, snap.Float("currentPrice"))
	assert.Equal(t, 1510.5, *snap.Float("currentPrice"))
	// summaryDetail precedes price
	assert.Equal(t, 6.25e12, snap.FloatOr(0, "marketCap"))
	// empty wrappers are treated as missing
	assert.Nil(t, snap.Float("debtToEquity"))
	_, present := snap["debtToEquity"]
	assert.False(t, present)
}

func TestSnapshotProviderError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"No fundamentals data found for any of the summaryTypes=price"}}}`))
	})

	_, err := src.Snapshot(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func bar(ts time.Time, close float64, vol int) *finance.ChartBar {
	c := decimal.NewFromFloat(close)
	return &finance.ChartBar{
		Open:      c,
		High:      c.Add(decimal.NewFromInt(1)),
		Low:       c.Sub(decimal.NewFromInt(1)),
		Close:     c,
		Volume:    vol,
		Timestamp: int(ts.Unix()),
	}
}

func TestHistoryConvertsBars(t *testing.T) {
	d0 := time.Date(2024, 3, 4, 3, 45, 0, 0, time.UTC)
	src := New(Params{}).WithChartFetcher(func(ctx context.Context, symbol string, start, end time.Time) ([]*finance.ChartBar, error) {
		assert.Equal(t, "INFY.NS", symbol)
		assert.InDelta(t, 200, end.Sub(start).Hours()/24, 0.1)
		return []*finance.ChartBar{
			bar(d0, 100.5, 10),
			{Timestamp: int(d0.Add(24 * time.Hour).Unix())},
			bar(d0.Add(48*time.Hour), 102, 30),
		}, nil
	})

	series, err := src.History(context.Background(), "INFY.NS", 200)
	require.NoError(t, err)
	require.Len(t, series.Bars, 2)
	assert.True(t, series.HasVolume)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
	assert.Equal(t, 100.5, series.Bars[0].Close)
	assert.Equal(t, 101.5, series.Bars[0].High)
	assert.Equal(t, 30.0, series.Bars[1].Volume)
}

func TestHistoryRetriesTransientErrors(t *testing.T) {
	calls := 0
	src := New(Params{MaxRetries: 2}).WithChartFetcher(func(ctx context.Context, symbol string, start, end time.Time) ([]*finance.ChartBar, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return []*finance.ChartBar{bar(time.Now(), 10, 1)}, nil
	})

	series, err := src.History(context.Background(), "TCS.NS", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, series.Bars, 1)
}

func TestHistoryGivesUpAfterRetries(t *testing.T) {
	calls := 0
	src := New(Params{MaxRetries: 0}).WithChartFetcher(func(ctx context.Context, symbol string, start, end time.Time) ([]*finance.ChartBar, error) {
		calls++
		return nil, errors.New("boom")
	})

	_, err := src.History(context.Background(), "TCS.NS", 5)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "TCS.NS")
}
