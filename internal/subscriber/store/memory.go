package store

import (
	"context"
	"sync"
	"time"

	"curbside/internal/sentinel"
	"curbside/internal/subscriber/models"
)

// InMemoryStore keeps subscriber records in memory. It owns both indices so a
// save can never leave them disagreeing about which id a phone belongs to.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.Subscriber
	byPhone map[string]string // normalized phone -> subscriber id
}

// New constructs an empty in-memory subscriber store.
func New() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]*models.Subscriber),
		byPhone: make(map[string]string),
	}
}

// Save upserts by id and reindexes by phone. If the record's phone changed,
// the stale phone index entry is removed in the same critical section.
func (s *InMemoryStore) Save(_ context.Context, sub *models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byID[sub.ID]; ok && existing.Phone != sub.Phone {
		delete(s.byPhone, existing.Phone)
	}
	copySub := *sub
	s.byID[sub.ID] = &copySub
	s.byPhone[sub.Phone] = sub.ID
	return nil
}

func (s *InMemoryStore) FindByPhone(_ context.Context, phone string) (*models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPhone[phone]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	sub, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copySub := *sub
	return &copySub, nil
}

// Update stamps UpdatedAt and saves. Returns ErrNotFound for unknown ids so
// callers cannot resurrect records that were never created.
func (s *InMemoryStore) Update(ctx context.Context, sub *models.Subscriber) error {
	s.mu.RLock()
	_, ok := s.byID[sub.ID]
	s.mu.RUnlock()
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.UpdatedAt = time.Now()
	return s.Save(ctx, sub)
}

// ListActiveVerified returns all subscribers with status active and
// verified=true, in unspecified order. Copies are returned so callers cannot
// mutate stored state.
func (s *InMemoryStore) ListActiveVerified(_ context.Context) ([]*models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []*models.Subscriber
	for _, sub := range s.byID {
		if sub.IsActive() {
			copySub := *sub
			active = append(active, &copySub)
		}
	}
	return active, nil
}
