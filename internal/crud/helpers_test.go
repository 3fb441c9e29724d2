package crud

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var bedKind = Kind{Name: "bed", Plural: "beds"}

// bed is a minimal record kind used across the package tests.
type bed struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=Free Taken"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b bed) GetID() uuid.UUID         { return b.ID }
func (b bed) GetCreatedAt() time.Time  { return b.CreatedAt }
func (b bed) StatusLabel() string      { return b.Status }
func (b bed) Matches(term string) bool { return ContainsFold(term, b.Label) }
func (b bed) Validate() error          { return ValidateStruct(b) }

func (b bed) WithIdentity(id uuid.UUID, createdAt time.Time) bed {
	b.ID = id
	b.CreatedAt = createdAt
	return b
}

// steppingClock returns a time one second later on every call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// scriptedStore wraps a MemoryStore and lets tests inject failures, count
// calls and block mutations.
type scriptedStore struct {
	*MemoryStore[bed]

	mu          sync.Mutex
	listErr     error
	mutateErr   error
	listCalls   int
	updateCalls int
	hold        chan struct{}
	entered     chan struct{}
}

func newScriptedStore(seed ...bed) *scriptedStore {
	return &scriptedStore{MemoryStore: NewMemoryStore(bedKind, seed...).WithClock(steppingClock())}
}

func (s *scriptedStore) List(ctx context.Context) ([]bed, error) {
	s.mu.Lock()
	s.listCalls++
	err := s.listErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.MemoryStore.List(ctx)
}

func (s *scriptedStore) Create(ctx context.Context, rec bed) (bed, error) {
	if err := s.mutation(); err != nil {
		return bed{}, err
	}
	return s.MemoryStore.Create(ctx, rec)
}

func (s *scriptedStore) Update(ctx context.Context, rec bed) (bed, error) {
	s.mu.Lock()
	s.updateCalls++
	s.mu.Unlock()
	if err := s.mutation(); err != nil {
		return bed{}, err
	}
	return s.MemoryStore.Update(ctx, rec)
}

func (s *scriptedStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.mutation(); err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, id)
}

func (s *scriptedStore) mutation() error {
	s.mu.Lock()
	hold, entered, err := s.hold, s.entered, s.mutateErr
	s.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if hold != nil {
		<-hold
	}
	return err
}

func (s *scriptedStore) setListErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

var errBackend = errors.New("backend unavailable")
