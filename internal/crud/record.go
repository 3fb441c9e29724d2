// Package crud holds the pieces shared by every hostel record kind: the
// Store contract and its memory and bun implementations, the generic HTTP
// handler, and the headless list/detail/form Session.
package crud

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrFetchFailed          = errors.New("fetch failed")
	ErrMutationFailed       = errors.New("mutation failed")
	ErrBusy                 = errors.New("another change is still in flight")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// Entity is implemented by the value types of every record kind. T is the
// implementing type itself so that WithIdentity can return a typed copy.
type Entity[T any] interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	// WithIdentity returns a copy carrying the given id and creation time.
	WithIdentity(id uuid.UUID, createdAt time.Time) T
	// StatusLabel is the value matched by the status filter. Kinds without
	// a status return "".
	StatusLabel() string
	// Matches reports whether a lower-cased search term hits any of the
	// record's text fields.
	Matches(term string) bool
	Validate() error
}

// Store is the data provider behind a record kind.
type Store[T Entity[T]] interface {
	// List returns all records, most recently created first.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Seeder is a Store that can be filled with records whose ids and creation
// times are kept as given. SeedIfEmpty is a no-op on a store that already
// holds records and reports how many records it inserted.
type Seeder[T Entity[T]] interface {
	Store[T]
	SeedIfEmpty(ctx context.Context, recs ...T) (int, error)
}

// Op names a mutation kind.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes a successful mutation.
type Change struct {
	Entity string    `json:"entity"`
	Op     Op        `json:"op"`
	ID     uuid.UUID `json:"id"`
	At     time.Time `json:"at"`
}

// Observer is notified after every successful mutation.
type Observer interface {
	Observe(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, change Change)

func (f ObserverFunc) Observe(ctx context.Context, change Change) { f(ctx, change) }

// Kind describes a record kind for routing, logging and events.
type Kind struct {
	// Name is the singular display name, e.g. "student".
	Name string
	// Plural is the route segment, e.g. "students".
	Plural string
}
