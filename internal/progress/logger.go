package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SkipEntry records one slice file that was left out of the aggregation.
type SkipEntry struct {
	File      string
	Reason    string
	Timestamp time.Time
}

// SkipLog collects skipped files, optionally appending them to a file.
type SkipLog struct {
	mu      sync.Mutex
	logFile string
	entries []SkipEntry
	file    *os.File
}

// NewSkipLog creates a skip log. An empty logFile keeps entries in memory only.
func NewSkipLog(logFile string) (*SkipLog, error) {
	l := &SkipLog{logFile: logFile}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		l.file = file
	}

	return l, nil
}

// Log records a skipped file.
func (l *SkipLog) Log(filePath, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := SkipEntry{
		File:      filePath,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	l.entries = append(l.entries, entry)

	if l.file != nil {
		fmt.Fprintf(l.file, "%s | %s | %s\n",
			entry.Timestamp.Format(time.RFC3339),
			filePath,
			reason)
	}
}

// Entries returns a copy of the recorded entries.
func (l *SkipLog) Entries() []SkipEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SkipEntry(nil), l.entries...)
}

// Count returns the number of skipped files.
func (l *SkipLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Summary returns a one-line description of the skipped files.
func (l *SkipLog) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case len(l.entries) == 0:
		return "No files skipped"
	case l.logFile == "":
		return fmt.Sprintf("%d file(s) skipped", len(l.entries))
	default:
		return fmt.Sprintf("%d file(s) skipped, see %s", len(l.entries), l.logFile)
	}
}

// Reset forgets the recorded entries. The log file is left untouched.
func (l *SkipLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Close closes the log file.
func (l *SkipLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
