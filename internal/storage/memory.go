package storage

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/study-buddy/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	turns    map[string][]models.Turn
	marks    map[string][]models.Mark
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*models.Session),
		turns:    make(map[string][]models.Turn),
		marks:    make(map[string][]models.Mark),
	}
}

// getOrCreateLocked requires s.mu to be held for writing.
func (s *MemoryStorage) getOrCreateLocked(id string) *models.Session {
	sess, exists := s.sessions[id]
	if !exists {
		now := time.Now()
		sess = &models.Session{
			ID:         id,
			CreatedAt:  now,
			LastUsedAt: now,
		}
		s.sessions[id] = sess
	}
	return sess
}

func (s *MemoryStorage) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.LastUsedAt = time.Now()
	out := *sess
	return &out, nil
}

func (s *MemoryStorage) SetName(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id)
	sess.Name = name
	sess.LastUsedAt = time.Now()
	return nil
}

func (s *MemoryStorage) UpsertMark(ctx context.Context, id string, mark models.Mark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreateLocked(id)
	record := s.marks[id]
	for i, m := range record {
		if m.Subject == mark.Subject {
			record[i].Score = mark.Score
			return nil
		}
	}
	s.marks[id] = append(record, mark)
	return nil
}

func (s *MemoryStorage) Marks(ctx context.Context, id string) ([]models.Mark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record := s.marks[id]
	out := make([]models.Mark, len(record))
	copy(out, record)
	return out, nil
}

func (s *MemoryStorage) AppendTurn(ctx context.Context, id string, turn models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreateLocked(id)
	s.turns[id] = append(s.turns[id], turn)
	return nil
}

func (s *MemoryStorage) Turns(ctx context.Context, id string) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[id]
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (s *MemoryStorage) DropOldestTurns(ctx context.Context, id string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[id]
	if n <= 0 || len(turns) == 0 {
		return nil
	}
	if n >= len(turns) {
		s.turns[id] = nil
		return nil
	}
	s.turns[id] = append([]models.Turn(nil), turns[n:]...)
	return nil
}

func (s *MemoryStorage) EvictIdle(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastUsedAt.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.turns, id)
			delete(s.marks, id)
			evicted++
		}
	}
	return evicted, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
