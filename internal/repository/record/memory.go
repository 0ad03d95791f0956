package record

import (
	"context"
	"sync"

	"smartband-store/internal/domain"
)

// Memory keeps records in process. It is used when no Redis is configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) For(sessionID string) Store {
	return &memoryStore{parent: m, sessionID: sessionID}
}

// Put stores raw bytes for a session, bypassing encoding.
func (m *Memory) Put(sessionID string, raw []byte) {
	m.mu.Lock()
	m.records[sessionID] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

type memoryStore struct {
	parent    *Memory
	sessionID string
}

func (s *memoryStore) Load(_ context.Context) (*domain.User, error) {
	s.parent.mu.RLock()
	raw, ok := s.parent.records[s.sessionID]
	s.parent.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(raw)
}

func (s *memoryStore) Save(_ context.Context, user domain.User) error {
	raw, err := encode(user)
	if err != nil {
		return err
	}
	s.parent.Put(s.sessionID, raw)
	return nil
}

func (s *memoryStore) Delete(_ context.Context) error {
	s.parent.mu.Lock()
	delete(s.parent.records, s.sessionID)
	s.parent.mu.Unlock()
	return nil
}
