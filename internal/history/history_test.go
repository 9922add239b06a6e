package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-portfolio-evaluator/internal/types"
)

func TestAppendWritesOneLinePerEvaluation(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)
	l.now = func() time.Time { return time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, l.Append(types.Evaluation{RunID: "r1", Ticker: "INFY.NS", Verdict: "BUY", Report: "ok"}))
	require.NoError(t, l.Append(types.Evaluation{RunID: "r1", Ticker: "TCS.NS", Verdict: "", Errors: []string{"Verdict generation: boom"}}))

	// 20:00 UTC is already the next day in IST
	f, err := os.Open(filepath.Join(dir, "evaluations-2024-06-15.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "INFY.NS", entries[0].Ticker)
	assert.Equal(t, "2024-06-15 01:30:00", entries[0].Time)
	assert.Equal(t, []string{"Verdict generation: boom"}, entries[1].Errors)
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	l := New(dir)

	old := filepath.Join(dir, "evaluations-2024-01-01.jsonl")
	fresh := filepath.Join(dir, "evaluations-2024-06-14.jsonl")
	require.NoError(t, os.WriteFile(old, []byte("{}\n"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("{}\n"), 0o644))
	past := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, past, past))

	n, err := l.CompressOlder(7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoFileExists(t, old)
	assert.FileExists(t, old+".gz")
	assert.FileExists(t, fresh)
}

func TestCompressOlderMissingDir(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "absent"))
	n, err := l.CompressOlder(7)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = l.CompressOlder(0)
	require.NoError(t, err)
	assert.Zero(t, n)
}
