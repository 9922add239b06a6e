package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"stock-portfolio-evaluator/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	tickerStyle = lipgloss.NewStyle().Width(16)

	buyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Width(6)
	holdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true).Width(6)
	sellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true).Width(6)
	noneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Width(6)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func verdictStyle(v string) lipgloss.Style {
	switch v {
	case types.VerdictBuy:
		return buyStyle
	case types.VerdictHold:
		return holdStyle
	case types.VerdictSell:
		return sellStyle
	default:
		return noneStyle
	}
}

// share formats n/total as a percentage with one decimal place.
func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	pct := decimal.NewFromInt(int64(n)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total)))
	return pct.StringFixed(1) + "%"
}

// Console renders a compact verdict table for terminals.
func Console(evs []types.Evaluation) string {
	s := Summarize(evs)

	var rows []string
	for _, ev := range evs {
		label := ev.Verdict
		if label == "" {
			label = "-"
		}
		row := tickerStyle.Render(ev.Ticker) + verdictStyle(ev.Verdict).Render(label)
		if n := len(ev.Errors); n > 0 {
			row += "  " + errorStyle.Render(fmt.Sprintf("%d issue(s)", n))
		}
		rows = append(rows, row)
	}

	totals := fmt.Sprintf("BUY %d (%s)  HOLD %d (%s)  SELL %d (%s)",
		s.Buy, share(s.Buy, s.Total),
		s.Hold, share(s.Hold, s.Total),
		s.Sell, share(s.Sell, s.Total))
	if s.Failed > 0 {
		totals += fmt.Sprintf("  FAILED %d", s.Failed)
	}

	body := strings.Join(append(rows, "", totals), "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Portfolio verdicts (%d stocks)", s.Total)),
		boxStyle.Render(body),
	)
}
