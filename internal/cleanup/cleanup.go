// Package cleanup writes output files atomically and removes the temporary
// files an interrupted run leaves behind.
package cleanup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

var logger = slog.Default()

// SetLogger overrides the cleanup logger (useful for CLI configured logging).
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Tracker remembers temporary files that have not been committed yet.
type Tracker struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{pending: make(map[string]struct{})}
}

func (t *Tracker) track(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[path] = struct{}{}
}

func (t *Tracker) untrack(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, path)
}

// Pending returns the tracked temporary files in lexical order.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.pending))
	for p := range t.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Cleanup removes every pending temporary file. It is safe to call more than
// once.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.mu.Unlock()

	for path := range pending {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("cleanup_failed", "file", path, "error", err)
			continue
		}
		logger.Debug("temp_removed", "file", path)
	}
}

// File is a temporary file that replaces its destination on Commit.
type File struct {
	*os.File
	dest    string
	tracker *Tracker
}

// CreateTemp creates a temporary file in the directory of dest, so the final
// rename stays on one filesystem.
func (t *Tracker) CreateTemp(dest string) (*File, error) {
	dir, base := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary output: %w", err)
	}
	t.track(f.Name())
	return &File{File: f, dest: dest, tracker: t}, nil
}

// Commit closes the file and renames it over the destination.
func (f *File) Commit() error {
	tmp := f.Name()
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temporary output: %w", err)
	}
	if err := os.Rename(tmp, f.dest); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	f.tracker.untrack(tmp)
	return nil
}

// Discard closes and removes the file, leaving the destination untouched.
func (f *File) Discard() {
	tmp := f.Name()
	_ = f.Close()
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		logger.Warn("cleanup_failed", "file", tmp, "error", err)
	}
	f.tracker.untrack(tmp)
}
