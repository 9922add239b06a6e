package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"stock-portfolio-evaluator/internal/interfaces"
	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/types"
)

// ErrNoTickers is returned when a portfolio run is given nothing to analyze.
var ErrNoTickers = errors.New("no tickers supplied")

type Options struct {
	// ParallelStages runs the five stages of one ticker concurrently.
	ParallelStages bool
	// Workers bounds how many tickers are analyzed at once. Values below 2 run sequentially.
	Workers int
}

// Pipeline runs every stage for a ticker and gathers the records into one result.
type Pipeline struct {
	stages []Stage
	opts   Options
}

var _ interfaces.Pipeline = (*Pipeline)(nil)

func New(stages []Stage, opts Options) *Pipeline {
	return &Pipeline{stages: stages, opts: opts}
}

// AnalyzeTicker never fails: stage faults become entries in the result's Errors.
func (p *Pipeline) AnalyzeTicker(ctx context.Context, ticker string) *types.AnalysisResult {
	op := logger.StartOperation(ctx, "analyze_ticker", "ticker", ticker)
	ctx = op.GetContext()

	outcomes := make([]Outcome, len(p.stages))
	errs := make([]error, len(p.stages))

	if p.opts.ParallelStages {
		var wg sync.WaitGroup
		for i, st := range p.stages {
			wg.Add(1)
			go func(i int, st Stage) {
				defer wg.Done()
				outcomes[i], errs[i] = runStage(ctx, st, ticker)
			}(i, st)
		}
		wg.Wait()
	} else {
		for i, st := range p.stages {
			outcomes[i], errs[i] = runStage(ctx, st, ticker)
		}
	}

	res := types.NewAnalysisResult(ticker)
	for i, st := range p.stages {
		if errs[i] != nil {
			logger.StageFailure(ctx, ticker, st.Name, errs[i])
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", st.Name, errs[i]))
			continue
		}
		if outcomes[i].Apply != nil {
			outcomes[i].Apply(res)
		}
		if f := outcomes[i].Failure; f != nil {
			logger.StageFailure(ctx, ticker, st.Name, errors.New(f.Error), "error_type", string(f.ErrorType))
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", st.Name, f.Error))
		}
	}

	op.End("errors", len(res.Errors))
	return res
}

// runStage converts a panic inside a stage into an error.
func runStage(ctx context.Context, st Stage, ticker string) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return st.Run(ctx, ticker)
}

// AnalyzePortfolio analyzes each normalized ticker independently and returns
// the results in input order.
func (p *Pipeline) AnalyzePortfolio(ctx context.Context, tickers []string) ([]*types.AnalysisResult, error) {
	tickers = NormalizeTickers(tickers)
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}

	logger.Info(ctx, "Analyzing portfolio", "tickers", len(tickers), "workers", p.opts.Workers, "parallel_stages", p.opts.ParallelStages)

	results := make([]*types.AnalysisResult, len(tickers))

	if p.opts.Workers < 2 {
		for i, t := range tickers {
			results[i] = p.AnalyzeTicker(ctx, t)
		}
		return results, nil
	}

	semaphore := make(chan struct{}, p.opts.Workers)
	var wg sync.WaitGroup
	for i, t := range tickers {
		wg.Add(1)
		go func(i int, t string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			results[i] = p.AnalyzeTicker(ctx, t)
		}(i, t)
	}
	wg.Wait()

	return results, nil
}

// NormalizeTickers trims and upper-cases tickers, dropping blanks and repeats
// while keeping first-seen order.
func NormalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
