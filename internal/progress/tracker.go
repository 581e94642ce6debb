package progress

import (
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// RootStatus is the state of a scanned root directory.
type RootStatus string

const (
	StatusRunning   RootStatus = "running"
	StatusCompleted RootStatus = "completed"
	StatusCancelled RootStatus = "cancelled"
)

// RootEntry describes one analyzed root.
type RootEntry struct {
	Root     string
	Status   RootStatus
	Folders  int
	Patients int
	Skipped  int
	Started  time.Time
	Finished time.Time
}

// Registry tracks the roots analyzed in this process. Nothing is persisted.
type Registry struct {
	mu    sync.Mutex
	roots map[string]*RootEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{roots: make(map[string]*RootEntry)}
}

// Key returns the registry key for a root path.
func Key(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Clean(root)
}

// Claim marks root as being analyzed. It returns false when the root was
// already claimed and has not been forgotten since.
func (r *Registry) Claim(root string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(root)
	if _, ok := r.roots[key]; ok {
		return false
	}
	r.roots[key] = &RootEntry{
		Root:    key,
		Status:  StatusRunning,
		Started: time.Now(),
	}
	return true
}

// IsAnalyzed reports whether root has been claimed.
func (r *Registry) IsAnalyzed(root string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.roots[Key(root)]
	return ok
}

// Finish records the final counters of a scan.
func (r *Registry) Finish(root string, status RootStatus, folders, patients, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.roots[Key(root)]
	if !ok {
		return
	}
	entry.Status = status
	entry.Folders = folders
	entry.Patients = patients
	entry.Skipped = skipped
	entry.Finished = time.Now()
}

// Get returns a copy of the entry for root.
func (r *Registry) Get(root string) (RootEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.roots[Key(root)]
	if !ok {
		return RootEntry{}, false
	}
	return *entry, true
}

// Roots returns all entries ordered by start time.
func (r *Registry) Roots() []RootEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RootEntry, 0, len(r.roots))
	for _, e := range r.roots {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}

// Clear forgets every analyzed root.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.roots)
	r.roots = make(map[string]*RootEntry)
	return n
}
