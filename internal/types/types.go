package types

import "time"

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronologically ordered run of bars for one ticker.
// HasVolume is false when the provider returned no volume column at all.
type PriceSeries struct {
	Ticker    string     `json:"ticker"`
	Bars      []PriceBar `json:"bars"`
	HasVolume bool       `json:"has_volume"`
}

func (s PriceSeries) Len() int {
	return len(s.Bars)
}

func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Dates returns the bar dates in series order.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

// Verdict labels produced by the verdict step.
const (
	VerdictBuy  = "BUY"
	VerdictHold = "HOLD"
	VerdictSell = "SELL"
)

// Verdict is the language model's decision on one ticker.
type Verdict struct {
	Label  string `json:"verdict"`
	Report string `json:"report"`
}

// Evaluation is the end-to-end outcome for a ticker: pipeline output, verdict and report.
type Evaluation struct {
	RunID     string          `json:"run_id"`
	Ticker    string          `json:"ticker"`
	Verdict   string          `json:"verdict"`
	Report    string          `json:"report"`
	Errors    []string        `json:"errors"`
	Timestamp string          `json:"timestamp"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"`
}
