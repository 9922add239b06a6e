package analysis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/types"
)

func TestRiskAgainstIdenticalBenchmark(t *testing.T) {
	m := newFakeMarket()
	m.history["X"] = series("X", 100, 110, 99, 108.9)
	m.history["^NSEI"] = series("^NSEI", 100, 110, 99, 108.9)

	rec := NewRiskAnalyzer(m, DefaultSettings()).Analyze(context.Background(), "X")
	require.Nil(t, rec.Degraded())

	assert.Equal(t, []int{252}, m.histDays["X"])
	assert.Equal(t, []int{252}, m.histDays["^NSEI"])

	// three returns: identical series give n/(n-1)
	require.NotNil(t, rec.Beta)
	assert.Equal(t, 1.5, *rec.Beta)
	require.NotNil(t, rec.VolatilityAnnual)
	assert.Greater(t, *rec.VolatilityAnnual, 0.35)
	assert.NotNil(t, rec.SharpeRatio)
	assert.Equal(t, VolatilityHigh, rec.VolatilityAssessment)
	assert.Equal(t, -0.08, rec.VaR95)
	assert.Equal(t, 0.0, rec.MaxDrawdown)
}

func TestRiskEmptyBenchmarkLeavesBetaUnset(t *testing.T) {
	m := newFakeMarket()
	m.history["X"] = series("X", 100, 101, 100.5, 102)

	rec := NewRiskAnalyzer(m, DefaultSettings()).Analyze(context.Background(), "X")
	require.Nil(t, rec.Degraded())
	assert.Nil(t, rec.Beta)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"beta":null`)
}

func TestRiskTwoBarsKeepsRecord(t *testing.T) {
	m := newFakeMarket()
	m.history["X"] = series("X", 100, 101)
	m.history["^NSEI"] = series("^NSEI", 100, 102)

	rec := NewRiskAnalyzer(m, DefaultSettings()).Analyze(context.Background(), "X")
	require.Nil(t, rec.Degraded())

	assert.Nil(t, rec.VolatilityAnnual)
	assert.Nil(t, rec.SharpeRatio)
	assert.Nil(t, rec.Beta)
	assert.Equal(t, 0.01, rec.VaR95)
	assert.Equal(t, 0.01, rec.MaxDrawdown)
	assert.Equal(t, VolatilityHigh, rec.VolatilityAssessment)

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"volatility_annual":null`)
	assert.Contains(t, string(b), `"sharpe_ratio":null`)
}

func TestRiskFailures(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		benchFn func(m *fakeMarket)
		want    string
	}{
		{"single bar", []float64{100}, nil, "insufficient data for X"},
		{"no valid returns", []float64{0, 0}, nil, "could not calculate returns for X"},
		{"benchmark error", []float64{100, 101, 102}, func(m *fakeMarket) { m.histErr["^NSEI"] = errUpstream }, "fetch benchmark ^NSEI: upstream unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeMarket()
			m.history["X"] = series("X", tt.closes...)
			if tt.benchFn != nil {
				tt.benchFn(m)
			}
			rec := NewRiskAnalyzer(m, DefaultSettings()).Analyze(context.Background(), "X")
			require.NotNil(t, rec.Degraded())
			assert.Equal(t, tt.want, rec.Failure.Error)
			assert.Equal(t, types.ErrTypeRisk, rec.Failure.ErrorType)
		})
	}
}

func TestVolatilityAssessment(t *testing.T) {
	assert.Equal(t, VolatilityLow, VolatilityAssessment(0.1999))
	assert.Equal(t, VolatilityModerate, VolatilityAssessment(0.20))
	assert.Equal(t, VolatilityModerate, VolatilityAssessment(0.3499))
	assert.Equal(t, VolatilityHigh, VolatilityAssessment(0.35))
}
