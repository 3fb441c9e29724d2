package crud

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Observed wraps a Store and reports each successful mutation to the
// observers. Reads pass through untouched.
func Observed[T Entity[T]](store Store[T], kind Kind, observers ...Observer) Store[T] {
	if len(observers) == 0 {
		return store
	}
	return &observedStore[T]{Store: store, kind: kind, observers: observers}
}

type observedStore[T Entity[T]] struct {
	Store[T]
	kind      Kind
	observers []Observer
}

func (s *observedStore[T]) Create(ctx context.Context, rec T) (T, error) {
	created, err := s.Store.Create(ctx, rec)
	if err == nil {
		s.notify(ctx, OpCreate, created.GetID())
	}
	return created, err
}

func (s *observedStore[T]) Update(ctx context.Context, rec T) (T, error) {
	updated, err := s.Store.Update(ctx, rec)
	if err == nil {
		s.notify(ctx, OpUpdate, updated.GetID())
	}
	return updated, err
}

func (s *observedStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.Store.Delete(ctx, id)
	if err == nil {
		s.notify(ctx, OpDelete, id)
	}
	return err
}

func (s *observedStore[T]) notify(ctx context.Context, op Op, id uuid.UUID) {
	change := Change{Entity: s.kind.Name, Op: op, ID: id, At: time.Now().UTC()}
	for _, o := range s.observers {
		o.Observe(ctx, change)
	}
}
