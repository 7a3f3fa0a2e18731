package repo

import (
	"context"
	"sync"
	"time"

	"github.com/kasionely/korner-integrations-service/model"
)

// MemoryStore keeps brief sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]memoryRecord
	now      func() time.Time
}

type memoryRecord struct {
	session   *model.Session
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]memoryRecord),
		now:      time.Now,
	}
}

// lookup returns the live session of userID. Expired sessions are evicted.
func (m *MemoryStore) lookup(userID int64) *model.Session {
	rec, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	if !m.now().Before(rec.expiresAt) {
		delete(m.sessions, userID)
		return nil
	}
	return rec.session
}

func (m *MemoryStore) Get(ctx context.Context, userID int64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.lookup(userID)
	if s == nil {
		return nil, model.ErrNoActiveSession
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, userID int64, s *model.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	version, err := nextVersion(m.lookup(userID), s)
	if err != nil {
		return err
	}

	stored := s.Clone()
	stored.Version = version
	m.sessions[userID] = memoryRecord{session: stored, expiresAt: m.now().Add(ttl)}
	s.Version = version
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID int64, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkDelete(m.lookup(userID), version); err != nil {
		return err
	}
	delete(m.sessions, userID)
	return nil
}
