package cache

import (
	"sync"
	"time"
)

// MemoryStore é a implementação em memória, usada em testes e execuções curtas
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

func (s *MemoryStore) Get(fingerprint string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[fingerprint]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if e.expired(s.ttl, time.Now()) {
		s.Invalidate(fingerprint)
		return nil, false
	}

	return e.Payload, true
}

func (s *MemoryStore) Set(fingerprint string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[fingerprint] = &entry{Payload: payload, FetchedAt: time.Now()}
}

func (s *MemoryStore) Invalidate(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, fingerprint)
}
