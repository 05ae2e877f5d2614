package router

import "sync"

// Location is the navigable surface the synchronizer reads and writes. In
// this client it is backed by the persisted session path; a served frontend
// would back it with a real address bar.
type Location interface {
	Current() string
	Replace(path string)
}

// MemoryLocation is a Location held in memory, safe for concurrent use.
type MemoryLocation struct {
	mu   sync.Mutex
	path string
}

// NewMemoryLocation builds a MemoryLocation starting at the given path.
func NewMemoryLocation(path string) *MemoryLocation {
	return &MemoryLocation{path: normalizePath(path)}
}

// Current returns the current path.
func (l *MemoryLocation) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Replace sets the current path without recording history.
func (l *MemoryLocation) Replace(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = normalizePath(path)
}
