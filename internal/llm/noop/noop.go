package noop

import (
	"context"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// NoopDecider is a fallback decider used when no language model is configured
type NoopDecider struct{}

var _ interfaces.Decider = (*NoopDecider)(nil)

// NewNoopDecider returns a new instance that always decides HOLD
func NewNoopDecider() *NoopDecider {
	return &NoopDecider{}
}

// Decide always returns HOLD and echoes the gathered analysis as the report
func (d *NoopDecider) Decide(ctx context.Context, ticker string, synthesis string) (types.Verdict, error) {
	logger.Debug(ctx, "Noop decider called - always returns HOLD", "ticker", ticker)
	return types.Verdict{
		Label:  types.VerdictHold,
		Report: "No language model configured; verdict defaults to HOLD.\n\n" + synthesis,
	}, nil
}
