package history

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"stock-portfolio-evaluator/internal/types"
)

var ist = time.FixedZone("IST", 19800)

// Entry is one evaluated ticker as written to the daily history file.
type Entry struct {
	Time      string   `json:"time"`
	RunID     string   `json:"run_id"`
	Ticker    string   `json:"ticker"`
	Verdict   string   `json:"verdict"`
	Errors    []string `json:"errors,omitempty"`
	Report    string   `json:"report"`
	Timestamp string   `json:"timestamp"`
}

// Log appends evaluations as JSON lines to one file per IST calendar day.
type Log struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func New(dir string) *Log {
	if dir == "" {
		dir = "logs"
	}
	return &Log{dir: dir, now: time.Now}
}

func (l *Log) Dir() string {
	return l.dir
}

func (l *Log) dailyFilepath(t time.Time) string {
	return filepath.Join(l.dir, "evaluations-"+t.In(ist).Format("2006-01-02")+".jsonl")
}

// Append records the verdict of one evaluation.
func (l *Log) Append(ev types.Evaluation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().In(ist)
	e := Entry{
		Time:      now.Format("2006-01-02 15:04:05"),
		RunID:     ev.RunID,
		Ticker:    ev.Ticker,
		Verdict:   ev.Verdict,
		Errors:    ev.Errors,
		Report:    ev.Report,
		Timestamp: ev.Timestamp,
	}
	p := l.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips daily files last modified more than retentionDays ago.
// Files that cannot be read are left in place.
func (l *Log) CompressOlder(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().AddDate(0, 0, -retentionDays)
	compressed := 0
	err := filepath.WalkDir(l.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(p, ".jsonl") {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if gzipFile(p, gz) == nil {
			_ = os.Remove(p)
			compressed++
		}
		return nil
	})
	return compressed, err
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
