package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offlineConfig = `
market_data:
  provider: static
news:
  provider: static
sentiment:
  provider: lexicon
llm:
  provider: noop
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeOfflineConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(offlineConfig), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "evaluator dev\n", out)
}

func TestAnalyzeWritesMarkdownReport(t *testing.T) {
	cfg := writeOfflineConfig(t)
	report := filepath.Join(t.TempDir(), "out", "report.md")

	_, err := runCLI(t, "analyze", "--config", cfg, "--tickers", "infy.ns,TCS.NS", "--output", report, "--workers", "2")
	require.NoError(t, err)

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "# Stock Portfolio Analysis Report")
	assert.Contains(t, body, "- **Total Stocks Analyzed**: 2")
	assert.Contains(t, body, "- **HOLD Recommendations**: 2")
	assert.Contains(t, body, "### 1. INFY.NS - **HOLD**")
	assert.Contains(t, body, "### 2. TCS.NS - **HOLD**")
}

func TestGatherPrintsAnalysisJSON(t *testing.T) {
	cfg := writeOfflineConfig(t)

	out, err := runCLI(t, "gather", "--config", cfg, "RELIANCE.NS")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "RELIANCE.NS", results[0]["ticker"])
	assert.NotNil(t, results[0]["fundamentals"])
	assert.NotNil(t, results[0]["risk_metrics"])
}

func TestAnalyzeRequiresTickers(t *testing.T) {
	cfg := writeOfflineConfig(t)
	_, err := runCLI(t, "analyze", "--config", cfg)
	assert.Error(t, err)
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	cfg := writeOfflineConfig(t)
	_, err := runCLI(t, "analyze", "--config", cfg, "--tickers", "INFY.NS", "--format", "csv")
	assert.Error(t, err)
}
