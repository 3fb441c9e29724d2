package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var ErrFormClosed = errors.New("no form is open")

// Phase is the load state of a Session's collection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// FormMode is the state of the create/edit form.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormClosed:
		return "closed"
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	}
	return fmt.Sprintf("form(%d)", int(m))
}

// Form holds the create/edit form. Draft keeps the last submitted input
// after a failed submission so it can be shown again.
type Form[T any] struct {
	Mode     FormMode
	Target   T
	Draft    T
	HasDraft bool
	Err      error
}

// View is a point-in-time copy of a Session for rendering.
type View[T any] struct {
	Phase Phase
	Items []T
	// FetchErr is the error of the last failed List, nil once a later
	// List succeeds.
	FetchErr error
	// LastErr is the most recent mutation failure, cleared by the next
	// successful mutation.
	LastErr       error
	Form          Form[T]
	PendingDelete uuid.UUID
	Confirming    bool
	Busy          bool
}

// Session is the list/detail/form state machine of one view over one
// record kind. It is independent of any rendering surface. A Session
// allows one mutation in flight at a time; concurrent mutations fail with
// ErrBusy without reaching the store.
type Session[T Entity[T]] struct {
	store Store[T]
	kind  Kind

	mu            sync.Mutex
	phase         Phase
	items         []T
	loaded        bool
	fetchErr      error
	lastErr       error
	form          Form[T]
	pendingDelete uuid.UUID
	confirming    bool
	busy          bool
}

func NewSession[T Entity[T]](store Store[T], kind Kind) *Session[T] {
	return &Session[T]{store: store, kind: kind}
}

// List fetches the collection. On failure the previously loaded items are
// kept unless nothing was loaded yet.
func (s *Session[T]) List(ctx context.Context) error {
	s.mu.Lock()
	s.phase = PhaseLoading
	s.mu.Unlock()

	items, err := s.store.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.phase = PhaseError
		s.fetchErr = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		if !s.loaded {
			s.items = nil
		}
		return s.fetchErr
	}

	s.items = items
	s.loaded = true
	s.phase = PhaseLoaded
	s.fetchErr = nil
	return nil
}

// Create validates and submits a new record, then reloads the list and
// closes the form.
func (s *Session[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T
	if err := input.Validate(); err != nil {
		s.fail(input, err)
		return zero, err
	}
	if err := s.begin(); err != nil {
		return zero, err
	}
	defer s.end()

	created, err := s.store.Create(ctx, input)
	if err != nil {
		err = mutationError(err)
		s.fail(input, err)
		return zero, err
	}

	s.succeed()
	_ = s.List(ctx)
	return created, nil
}

// Update validates and submits changes to the record with the given id,
// then reloads the list and closes the form.
func (s *Session[T]) Update(ctx context.Context, id uuid.UUID, input T) (T, error) {
	var zero T
	input = input.WithIdentity(id, input.GetCreatedAt())
	if err := input.Validate(); err != nil {
		s.fail(input, err)
		return zero, err
	}
	if err := s.begin(); err != nil {
		return zero, err
	}
	defer s.end()

	updated, err := s.store.Update(ctx, input)
	if err != nil {
		err = mutationError(err)
		s.fail(input, err)
		return zero, err
	}

	s.succeed()
	_ = s.List(ctx)
	return updated, nil
}

// RequestDelete stages a delete that must be confirmed with ConfirmDelete.
func (s *Session[T]) RequestDelete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = id
	s.confirming = true
}

// CancelDelete discards a staged delete.
func (s *Session[T]) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = uuid.Nil
	s.confirming = false
}

// ConfirmDelete dispatches the staged delete and reloads the list. The
// staged id is consumed when the delete starts; a delete rejected with
// ErrBusy stays staged.
func (s *Session[T]) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if !s.confirming {
		s.mu.Unlock()
		return ErrConfirmationRequired
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	id := s.pendingDelete
	s.pendingDelete = uuid.Nil
	s.confirming = false
	s.mu.Unlock()
	defer s.end()

	if err := s.store.Delete(ctx, id); err != nil {
		err = mutationError(err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()

	_ = s.List(ctx)
	return nil
}

// Detail returns the loaded record with the given id.
func (s *Session[T]) Detail(id uuid.UUID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

// Filter returns the loaded records matching status and term.
func (s *Session[T]) Filter(status, term string) []T {
	s.mu.Lock()
	items := append([]T(nil), s.items...)
	s.mu.Unlock()
	return Filter(items, status, term)
}

func (s *Session[T]) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = Form[T]{Mode: FormCreate}
}

// OpenEdit opens the form on a loaded record.
func (s *Session[T]) OpenEdit(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.find(id)
	if err != nil {
		return err
	}
	s.form = Form[T]{Mode: FormEdit, Target: target}
	return nil
}

func (s *Session[T]) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = Form[T]{}
}

// Submit sends the form input as a create or an update depending on how
// the form was opened.
func (s *Session[T]) Submit(ctx context.Context, input T) (T, error) {
	s.mu.Lock()
	mode, target := s.form.Mode, s.form.Target
	s.mu.Unlock()

	switch mode {
	case FormCreate:
		return s.Create(ctx, input)
	case FormEdit:
		return s.Update(ctx, target.GetID(), input)
	}
	var zero T
	return zero, ErrFormClosed
}

func (s *Session[T]) Snapshot() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View[T]{
		Phase:         s.phase,
		Items:         append([]T(nil), s.items...),
		FetchErr:      s.fetchErr,
		LastErr:       s.lastErr,
		Form:          s.form,
		PendingDelete: s.pendingDelete,
		Confirming:    s.confirming,
		Busy:          s.busy,
	}
}

func (s *Session[T]) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session[T]) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Session[T]) fail(input T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.form.Draft = input
	s.form.HasDraft = true
	s.form.Err = err
}

func (s *Session[T]) succeed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
	s.form = Form[T]{}
}

// find must be called with mu held.
func (s *Session[T]) find(id uuid.UUID) (T, error) {
	for _, rec := range s.items {
		if rec.GetID() == id {
			return rec, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %s: %w", s.kind.Name, id, ErrNotFound)
}

func mutationError(err error) error {
	if errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMutationFailed, err)
}
