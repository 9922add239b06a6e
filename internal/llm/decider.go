package llm

import (
	"context"
	"fmt"
	"strings"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/types"
)

// ModelDecider asks a chat model for a verdict and report.
type ModelDecider struct {
	completer interfaces.Completer
	system    string
}

var _ interfaces.Decider = (*ModelDecider)(nil)

// NewModelDecider builds a decider on top of completer. An empty system prompt
// selects DefaultSystemPrompt.
func NewModelDecider(completer interfaces.Completer, system string) *ModelDecider {
	if strings.TrimSpace(system) == "" {
		system = DefaultSystemPrompt
	}
	return &ModelDecider{completer: completer, system: system}
}

func (d *ModelDecider) Decide(ctx context.Context, ticker string, synthesis string) (types.Verdict, error) {
	out, err := d.completer.Complete(ctx, d.system, UserPrompt(ticker, synthesis))
	if err != nil {
		return types.Verdict{}, err
	}

	var v struct {
		Verdict string `json:"verdict"`
		Report  string `json:"report"`
	}
	if err := DecodeJSON(out, &v); err != nil {
		return types.Verdict{}, fmt.Errorf("unparseable model output: %w", err)
	}

	return types.Verdict{Label: NormalizeVerdict(v.Verdict), Report: v.Report}, nil
}

// NormalizeVerdict maps free-form model output onto BUY, HOLD or SELL.
func NormalizeVerdict(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case v == types.VerdictBuy || v == types.VerdictHold || v == types.VerdictSell:
		return v
	case strings.Contains(v, types.VerdictBuy):
		return types.VerdictBuy
	case strings.Contains(v, types.VerdictSell):
		return types.VerdictSell
	default:
		return types.VerdictHold
	}
}
