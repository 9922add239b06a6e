package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/marketdata/kite"
	"stock-portfolio-evaluator/internal/marketdata/static"
	"stock-portfolio-evaluator/internal/marketdata/yahoo"
	"stock-portfolio-evaluator/internal/store"
)

func TestNewSelectsProvider(t *testing.T) {
	cfg := store.Default()

	src, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &yahoo.Source{}, src)

	cfg.MarketData.Provider = "STATIC"
	src, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &static.Source{}, src)
}

func TestNewKiteNeedsCredentials(t *testing.T) {
	cfg := store.Default()
	cfg.MarketData.Provider = "KITE"
	cfg.MarketData.APIKeyEnv = "EVALUATOR_TEST_KITE_KEY"
	cfg.MarketData.AccessTokenEnv = "EVALUATOR_TEST_KITE_TOKEN"

	_, err := New(cfg)
	require.Error(t, err)

	t.Setenv("EVALUATOR_TEST_KITE_KEY", "key")
	t.Setenv("EVALUATOR_TEST_KITE_TOKEN", "token")
	src, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &kite.Source{}, src)
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := store.Default()
	cfg.MarketData.Provider = "BLOOMBERG"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "unsupported market data provider")
}
