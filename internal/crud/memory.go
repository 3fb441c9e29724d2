package crud

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. It backs the sample-data
// kinds; changes last for the lifetime of the process.
type MemoryStore[T Entity[T]] struct {
	mu    sync.RWMutex
	kind  Kind
	items map[uuid.UUID]T
	now   func() time.Time
}

func NewMemoryStore[T Entity[T]](kind Kind, seed ...T) *MemoryStore[T] {
	s := &MemoryStore[T]{
		kind:  kind,
		items: make(map[uuid.UUID]T, len(seed)),
		now:   time.Now,
	}
	for _, rec := range seed {
		s.items[rec.GetID()] = rec
	}
	return s
}

// WithClock replaces the creation-time source. Used by tests that need a
// stable ordering.
func (s *MemoryStore[T]) WithClock(now func() time.Time) *MemoryStore[T] {
	s.now = now
	return s
}

func (s *MemoryStore[T]) SeedIfEmpty(_ context.Context, recs ...T) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		return 0, nil
	}
	for _, rec := range recs {
		s.items[rec.GetID()] = rec
	}
	return len(recs), nil
}

func (s *MemoryStore[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	out := make([]T, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sortByRecency(out)
	return out, nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", s.kind.Name, id, ErrNotFound)
	}
	return rec, nil
}

func (s *MemoryStore[T]) Create(_ context.Context, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		var zero T
		return zero, err
	}
	rec = rec.WithIdentity(uuid.New(), s.now().UTC())

	s.mu.Lock()
	s.items[rec.GetID()] = rec
	s.mu.Unlock()
	return rec, nil
}

func (s *MemoryStore[T]) Update(_ context.Context, rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[rec.GetID()]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", s.kind.Name, rec.GetID(), ErrNotFound)
	}
	rec = rec.WithIdentity(existing.GetID(), existing.GetCreatedAt())
	s.items[rec.GetID()] = rec
	return rec, nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%s %s: %w", s.kind.Name, id, ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func sortByRecency[T Entity[T]](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].GetCreatedAt(), items[j].GetCreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return items[i].GetID().String() < items[j].GetID().String()
	})
}
