package audit

import (
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// LogWriter appends audit events to monthly files under a directory:
// activity_YYYY-MM.log for everything, critical_YYYY-MM.log mirroring the
// kinds operations staff review.  One writer instance is used by the
// consumer goroutine only, so no locking is needed beyond the O_APPEND
// guarantee of the filesystem.
type LogWriter struct {
    dir string
}

// NewLogWriter ensures the directory exists and returns a writer for it.
func NewLogWriter(dir string) (*LogWriter, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("mkdir %s: %w", dir, err)
    }
    return &LogWriter{dir: dir}, nil
}

// Append writes a single event line.  The month suffix comes from the
// event's own timestamp so delayed deliveries land in the right file.
func (w *LogWriter) Append(ev Event) error {
    at, err := time.Parse(time.RFC3339, ev.At)
    if err != nil {
        at = time.Now().UTC()
    }
    line := FormatLine(ev)

    month := at.UTC().Format("2006-01")
    if err := appendLine(filepath.Join(w.dir, "activity_"+month+".log"), line); err != nil {
        return err
    }
    if Critical(ev.Kind) {
        if err := appendLine(filepath.Join(w.dir, "critical_"+month+".log"), line); err != nil {
            return err
        }
    }
    return nil
}

// FormatLine renders an event as one pipe-separated log line.
func FormatLine(ev Event) string {
    detail := ev.Detail
    if detail == "" {
        detail = "-"
    }
    return fmt.Sprintf("[%s] | actor=%s | action=%s | %s\n", ev.At, ev.Actor, ev.Kind, detail)
}

func appendLine(path, line string) error {
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// Sweep deletes log files whose last modification is older than maxAge and
// returns how many were removed.  It runs on consumer start and once a day
// afterwards, so retention is enforced deterministically instead of on a
// lucky request.
func (w *LogWriter) Sweep(maxAge time.Duration) (int, error) {
    entries, err := filepath.Glob(filepath.Join(w.dir, "*.log"))
    if err != nil {
        return 0, err
    }
    cutoff := time.Now().Add(-maxAge)
    removed := 0
    for _, path := range entries {
        info, err := os.Stat(path)
        if err != nil {
            continue
        }
        if info.ModTime().Before(cutoff) {
            if err := os.Remove(path); err == nil {
                removed++
            }
        }
    }
    return removed, nil
}

// RecentLines returns up to max lines from the newest activity log file,
// newest first.  It backs the admin activity view.
func RecentLines(dir string, max int) ([]string, error) {
    files, err := filepath.Glob(filepath.Join(dir, "activity_*.log"))
    if err != nil {
        return nil, err
    }
    if len(files) == 0 {
        return []string{}, nil
    }
    sort.Strings(files) // names embed YYYY-MM, so the last is the newest
    data, err := os.ReadFile(files[len(files)-1])
    if err != nil {
        return nil, err
    }
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    out := make([]string, 0, max)
    for i := len(lines) - 1; i >= 0 && len(out) < max; i-- {
        if strings.TrimSpace(lines[i]) != "" {
            out = append(out, lines[i])
        }
    }
    return out, nil
}
