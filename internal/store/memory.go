package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-history-dashboard/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory record store.
// Records are kept in insertion order, which is also timestamp order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []weather.Record
	clock   *clock
	closed  bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return newMemoryStoreWithClock(time.Now)
}

func newMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{clock: newClock(now)}
}

// Insert assigns an id and timestamp and appends the record.
func (s *MemoryStore) Insert(_ context.Context, rec weather.Record) (weather.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return weather.Record{}, ErrNotInitialized
	}

	rec.ID = uuid.NewString()
	rec.Timestamp = s.clock.next()
	s.records = append(s.records, rec)
	return rec, nil
}

// FindByCity returns matching records, newest first.
func (s *MemoryStore) FindByCity(_ context.Context, query string) ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrNotInitialized
	}

	result := make([]weather.Record, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if cityMatches(s.records[i].City, query) {
			result = append(result, s.records[i])
		}
	}
	return result, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrNotInitialized
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
