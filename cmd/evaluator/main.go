package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stock-portfolio-evaluator/internal/logger"
	"stock-portfolio-evaluator/internal/pipeline"
	"stock-portfolio-evaluator/internal/report"
	"stock-portfolio-evaluator/internal/store"
)

var version = "dev"

type runOptions struct {
	configPath     string
	tickers        []string
	output         string
	format         string
	workers        int
	parallelStages bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:   "evaluator",
		Short: "Stock portfolio evaluator",
		Long: `Evaluates a portfolio of stocks by running fundamental, technical, news
sentiment, analyst rating and risk analysis per ticker, then asks a language
model for a BUY, HOLD or SELL verdict with a written report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeSystem()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdownSystem()
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(newAnalyzeCmd(opts), newGatherCmd(opts), newVersionCmd())
	return root
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringSliceVarP(&opts.tickers, "tickers", "t", nil, "tickers to analyze (e.g. RELIANCE.NS,HDFCBANK.NS)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "tickers analyzed concurrently (overrides pipeline.workers)")
	cmd.Flags().BoolVar(&opts.parallelStages, "parallel-stages", false, "run the analysis stages of a ticker concurrently")
}

func newAnalyzeCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [TICKER...]",
		Short: "Analyze tickers and produce a portfolio report",
		Long: `Runs the full evaluation for every ticker and prints the portfolio report.
Example: evaluator analyze --tickers RELIANCE.NS,HDFCBANK.NS --output report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: markdown or json (overrides output.format)")
	return cmd
}

func newGatherCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gather [TICKER...]",
		Short: "Run the analysis pipeline only and print the raw results as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGather(cmd, opts, args)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "evaluator %s\n", version)
		},
	}
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// prepare collects tickers from flags and arguments, then loads the config
// with command-line overrides applied.
func prepare(ctx context.Context, cmd *cobra.Command, opts *runOptions, args []string) (*store.Config, []string, error) {
	tickers := pipeline.NormalizeTickers(append(append([]string{}, opts.tickers...), args...))
	if len(tickers) == 0 {
		logger.Error(ctx, "No tickers provided. Please specify tickers using --tickers.")
		return nil, nil, pipeline.ErrNoTickers
	}

	cfg, err := loadConfig(ctx, opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Pipeline.Workers = opts.workers
	}
	if flags.Changed("parallel-stages") {
		cfg.Pipeline.ParallelStages = opts.parallelStages
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if flags.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, tickers, nil
}

func runAnalyze(cmd *cobra.Command, opts *runOptions, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, tickers, err := prepare(ctx, cmd, opts, args)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Starting analysis", "count", len(tickers), "tickers", strings.Join(tickers, ", "))

	eng, err := initializeEngine(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize engine", err)
		return err
	}

	evs, err := eng.EvaluatePortfolio(ctx, tickers)
	if err != nil {
		logger.ErrorWithErr(ctx, "Fatal error", err)
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Warn(ctx, "Analysis interrupted by user", "evaluated", len(evs))
	}

	reporter := report.NewReporter()
	content, err := reporter.Generate(evs, report.Format(cfg.Output.Format))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Output.Path != "" {
		path, err := reporter.Save(cfg.Output.Path, content)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to save report", err, "path", cfg.Output.Path)
			return err
		}
		fmt.Fprintln(out, report.Console(evs))
		logger.Info(ctx, "Report saved", "path", path)
		return nil
	}

	if cfg.Output.Format == string(report.FormatJSON) {
		fmt.Fprintln(out, content)
		return nil
	}
	fmt.Fprintln(out, report.Console(evs))
	fmt.Fprintln(out, strings.Repeat("=", 70))
	fmt.Fprintln(out, content)
	fmt.Fprintln(out, strings.Repeat("=", 70))
	return nil
}

func runGather(cmd *cobra.Command, opts *runOptions, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, tickers, err := prepare(ctx, cmd, opts, args)
	if err != nil {
		return err
	}

	p, err := initializePipeline(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize pipeline", err)
		return err
	}

	results, err := p.AnalyzePortfolio(ctx, tickers)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
