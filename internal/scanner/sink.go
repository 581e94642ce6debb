package scanner

import (
	"errors"
	"sync"
	"time"

	"dicom-info/internal/patient"
)

// EventKind identifies the payload of an Event.
type EventKind int

const (
	// EventFolder is sent when the worker starts a folder.
	EventFolder EventKind = iota
	// EventSummary carries one completed patient summary.
	EventSummary
	// EventSkipped carries an *InvalidFileError.
	EventSkipped
	// EventComplete is the last event of a scan.
	EventComplete
)

// Event is sent from the scan worker to its consumer.
type Event struct {
	Kind    EventKind
	Folder  string
	Summary patient.Summary
	Err     error
	Result  Result
}

// Result describes a finished scan.
type Result struct {
	ScanID   string
	Root     string
	Folders  int
	Files    int
	Skipped  int
	Patients int
	Duration time.Duration

	// Err is nil on completion or ErrCancelled when stopped by the user.
	Err error
}

// Cancelled reports whether the scan was stopped before the walk ended.
func (r Result) Cancelled() bool {
	return errors.Is(r.Err, ErrCancelled)
}

// Sink receives summaries as they are produced.
type Sink interface {
	Push(s patient.Summary)
	Complete(total int)
	Clear()
}

// Progress is implemented by sinks that also want folder and skip notices.
type Progress interface {
	FolderStarted(folder string)
	FileSkipped(path string, err error)
}

// Drain forwards events to sink until the channel is closed and returns the
// scan result. It runs on the caller's goroutine.
func Drain(events <-chan Event, sink Sink) Result {
	progress, _ := sink.(Progress)

	var res Result
	for ev := range events {
		switch ev.Kind {
		case EventFolder:
			if progress != nil {
				progress.FolderStarted(ev.Folder)
			}
		case EventSkipped:
			if progress != nil {
				path := ""
				if ferr, ok := ev.Err.(*InvalidFileError); ok {
					path = ferr.Path
				}
				progress.FileSkipped(path, ev.Err)
			}
		case EventSummary:
			sink.Push(ev.Summary)
		case EventComplete:
			res = ev.Result
			sink.Complete(res.Patients)
		}
	}
	return res
}

// Collector is a Sink that keeps summaries in memory. It is safe for
// concurrent use.
type Collector struct {
	mu        sync.Mutex
	summaries []patient.Summary
	total     int
	completed bool
}

func (c *Collector) Push(s patient.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries = append(c.summaries, s)
}

func (c *Collector) Complete(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = total
	c.completed = true
}

func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries = nil
	c.total = 0
	c.completed = false
}

// Summaries returns a copy of the collected summaries in arrival order.
func (c *Collector) Summaries() []patient.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]patient.Summary(nil), c.summaries...)
}

// Total returns the count reported by Complete and whether it was called.
func (c *Collector) Total() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, c.completed
}
