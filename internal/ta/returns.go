package ta

import (
	"math"
	"sort"
	"time"

	"stock-portfolio-evaluator/internal/types"
)

const (
	TradingDaysPerYear = 252
	// RiskFreeRate is the annual rate used by the Sharpe ratio.
	RiskFreeRate = 0.02
)

// Return is a dated close-to-close percentage change.
type Return struct {
	Date  time.Time
	Value float64
}

func values(rs []Return) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Value
	}
	return out
}

// DailyReturns computes percentage changes between consecutive closes.
// Changes that are not finite (zero or missing prior close) are dropped.
func DailyReturns(series types.PriceSeries) []Return {
	if len(series.Bars) < 2 {
		return nil
	}
	out := make([]Return, 0, len(series.Bars)-1)
	for i := 1; i < len(series.Bars); i++ {
		prev := series.Bars[i-1].Close
		r := (series.Bars[i].Close - prev) / prev
		if !Available(r) {
			continue
		}
		out = append(out, Return{Date: series.Bars[i].Date, Value: r})
	}
	return out
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled by sqrt(252).
func AnnualizedVolatility(returns []Return) float64 {
	return SampleStdDev(values(returns)) * math.Sqrt(TradingDaysPerYear)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Beta regresses stock on market returns over the dates both series share.
// Covariance uses the sample (n-1) denominator and market variance the
// population (n) denominator. NaN when fewer than two dates overlap or the
// market did not move.
func Beta(stock, market []Return) float64 {
	if len(stock) == 0 || len(market) == 0 {
		return math.NaN()
	}
	byDate := make(map[string]float64, len(market))
	for _, r := range market {
		byDate[dateKey(r.Date)] = r.Value
	}

	var xs, ys []float64
	for _, r := range stock {
		if m, ok := byDate[dateKey(r.Date)]; ok {
			xs = append(xs, r.Value)
			ys = append(ys, m)
		}
	}
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}

	mx, my := Mean(xs), Mean(ys)
	cov, vr := 0.0, 0.0
	for i := 0; i < n; i++ {
		cov += (xs[i] - mx) * (ys[i] - my)
		vr += (ys[i] - my) * (ys[i] - my)
	}
	cov /= float64(n - 1)
	vr /= float64(n)
	if vr == 0 {
		return math.NaN()
	}
	return cov / vr
}

// SharpeRatio annualizes the mean daily return, subtracts riskFree and divides
// by annualized volatility. Zero volatility yields 0.
func SharpeRatio(returns []Return, riskFree float64) float64 {
	vol := AnnualizedVolatility(returns)
	if !Available(vol) || vol == 0 {
		return 0
	}
	excess := Mean(values(returns))*TradingDaysPerYear - riskFree
	return excess / vol
}

// Quantile interpolates linearly between the two nearest ranks.
func Quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// ValueAtRisk95 is the 5th percentile of daily returns.
func ValueAtRisk95(returns []Return) float64 {
	return Quantile(values(returns), 0.05)
}

// MaxDrawdownProxy is the lowest point of the running sum of daily returns.
// It is not a peak-to-trough drawdown.
func MaxDrawdownProxy(returns []Return) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}
	cum := 0.0
	low := math.Inf(1)
	for _, r := range returns {
		cum += r.Value
		if cum < low {
			low = cum
		}
	}
	return low
}
