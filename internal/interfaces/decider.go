package interfaces

import (
	"context"

	"stock-portfolio-evaluator/internal/types"
)

// Decider turns the synthesized analysis of one ticker into a BUY/HOLD/SELL verdict and report.
type Decider interface {
	Decide(ctx context.Context, ticker string, synthesis string) (types.Verdict, error)
}

// Completer sends one system+user prompt pair to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
