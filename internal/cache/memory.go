package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	byTag   map[string]map[string]struct{}
	now     func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		byTag:   make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !m.expired(e) {
		return e.value, nil
	}

	// A Set may have replaced the entry since the read lock was dropped.
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok = m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if m.expired(e) {
		m.remove(key)
		return nil, ErrMiss
	}
	return e.value, nil
}

func (m *Memory) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(key)
	e := memoryEntry{value: value, tags: tags}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	for _, tag := range tags {
		set, ok := m.byTag[tag]
		if !ok {
			set = make(map[string]struct{})
			m.byTag[tag] = set
		}
		set[key] = struct{}{}
	}
	return nil
}

func (m *Memory) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for key := range m.byTag[tag] {
			m.remove(key)
		}
		delete(m.byTag, tag)
	}
	return nil
}

// remove drops key and its tag memberships. Callers hold the write lock.
func (m *Memory) remove(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.tags {
		if set := m.byTag[tag]; set != nil {
			delete(set, key)
			if len(set) == 0 {
				delete(m.byTag, tag)
			}
		}
	}
}
