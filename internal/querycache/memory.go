package querycache

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local backend.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// NewMemory creates an empty in-process backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), Now: time.Now}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	if !m.Now().Before(me.expires) {
		delete(m.entries, key)
		return Entry{}, false, nil
	}
	return me.entry, true, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{entry: e, expires: m.Now().Add(ttl)}
	return nil
}

// Flush implements Backend.
func (m *Memory) Flush(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
