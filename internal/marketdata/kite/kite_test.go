package kite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradingSymbol(t *testing.T) {
	assert.Equal(t, "INFY", TradingSymbol("infy.ns"))
	assert.Equal(t, "RELIANCE", TradingSymbol(" RELIANCE.BO "))
	assert.Equal(t, "NIFTY 50", TradingSymbol("^NSEI"))
	assert.Equal(t, "TCS", TradingSymbol("TCS"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Params{APIKey: "key"})
	require.Error(t, err)
}

func TestSnapshotMapsQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "NSE")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"NSE:INFY":{
			"instrument_token":408065,
			"last_price":1510.5,
			"volume":123456,
			"ohlc":{"open":1500,"high":1520,"low":1495,"close":1498}
		}}}`))
	}))
	defer srv.Close()

	src, err := New(Params{APIKey: "key", AccessToken: "token", BaseURI: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	snap, err := src.Snapshot(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, 1510.5, snap.FloatOr(0, "currentPrice"))
	assert.Equal(t, 1498.0, snap.FloatOr(0, "previousClose"))
	assert.Equal(t, 123456, snap.Int(0, "regularMarketVolume"))

	token, ok := src.tokens.getToken("INFY")
	require.True(t, ok)
	assert.Equal(t, 408065, token)
}

func TestInstrumentMapper(t *testing.T) {
	m := newInstrumentMapper()
	m.addMapping("INFY", 1)
	assert.False(t, m.isLoaded())

	m.load(map[string]int{"TCS": 2})
	assert.True(t, m.isLoaded())
	_, ok := m.getToken("INFY")
	assert.False(t, ok)
	token, ok := m.getToken("TCS")
	assert.True(t, ok)
	assert.Equal(t, 2, token)
}
