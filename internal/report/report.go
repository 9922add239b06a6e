package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stock-portfolio-evaluator/internal/types"
)

// Format selects how a portfolio report is rendered.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Summary counts verdicts across a portfolio. Failed counts evaluations
// that ended without a verdict.
type Summary struct {
	Total  int `json:"total"`
	Buy    int `json:"buy"`
	Hold   int `json:"hold"`
	Sell   int `json:"sell"`
	Failed int `json:"failed"`
}

func Summarize(evs []types.Evaluation) Summary {
	s := Summary{Total: len(evs)}
	for _, ev := range evs {
		switch ev.Verdict {
		case types.VerdictBuy:
			s.Buy++
		case types.VerdictHold:
			s.Hold++
		case types.VerdictSell:
			s.Sell++
		default:
			s.Failed++
		}
	}
	return s
}

// Reporter renders portfolio evaluations and writes them to disk.
type Reporter struct {
	now func() time.Time
}

func NewReporter() *Reporter {
	return &Reporter{now: time.Now}
}

// WithClock pins the generation time, mainly for tests.
func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	r.now = now
	return r
}

// Generate renders the evaluations in the given format.
func (r *Reporter) Generate(evs []types.Evaluation, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return r.generateMarkdown(evs), nil
	case FormatJSON:
		return r.generateJSON(evs)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes content to path, creating parent directories as needed.
func (r *Reporter) Save(path, content string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func (r *Reporter) generateMarkdown(evs []types.Evaluation) string {
	s := Summarize(evs)

	var sb strings.Builder
	sb.WriteString("\n# Stock Portfolio Analysis Report\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", r.now().Format("2006-01-02 15:04:05"))

	sb.WriteString("## Portfolio Overview\n")
	fmt.Fprintf(&sb, "- **Total Stocks Analyzed**: %d\n", s.Total)
	fmt.Fprintf(&sb, "- **BUY Recommendations**: %d\n", s.Buy)
	fmt.Fprintf(&sb, "- **HOLD Recommendations**: %d\n", s.Hold)
	fmt.Fprintf(&sb, "- **SELL Recommendations**: %d\n\n", s.Sell)

	sb.WriteString("## Individual Stock Analysis\n\n")

	for i, ev := range evs {
		body := ev.Report
		if body == "" {
			body = "No report available"
		}
		fmt.Fprintf(&sb, "\n### %d. %s - **%s**\n", i+1, ev.Ticker, ev.Verdict)
		sb.WriteString(body)
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

type jsonReport struct {
	Generated   string             `json:"generated"`
	Summary     Summary            `json:"summary"`
	Evaluations []types.Evaluation `json:"evaluations"`
}

func (r *Reporter) generateJSON(evs []types.Evaluation) (string, error) {
	if evs == nil {
		evs = []types.Evaluation{}
	}
	data, err := json.MarshalIndent(jsonReport{
		Generated:   r.now().Format(time.RFC3339),
		Summary:     Summarize(evs),
		Evaluations: evs,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
