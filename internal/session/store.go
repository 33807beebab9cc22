package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Store.Load for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists credentials by session id. Only the session gate writes to
// it.
type Store interface {
	Load(ctx context.Context, id string) (*Credentials, error)
	Save(ctx context.Context, id string, creds *Credentials) error
	Delete(ctx context.Context, id string) error
}

type memoryRecord struct {
	creds     Credentials
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Sessions do not survive a restart
// and are not shared between instances.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose records live for ttl after their last
// save. A zero ttl never expires them.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Credentials, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !rec.expiresAt.IsZero() && m.now().After(rec.expiresAt) {
		m.mu.Lock()
		delete(m.records, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	creds := rec.creds
	return &creds, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, creds *Credentials) error {
	rec := memoryRecord{creds: *creds}
	if m.ttl > 0 {
		rec.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.records[id] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}
