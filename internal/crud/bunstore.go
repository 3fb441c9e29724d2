package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// QueryRecorder receives the duration and outcome of every database call.
type QueryRecorder interface {
	RecordQuery(ctx context.Context, operation string, table string, duration time.Duration, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordQuery(context.Context, string, string, time.Duration, error) {}

// BunStore persists records of one kind in a PostgreSQL table through bun.
// T must be a bun model with "id" and "created_at" columns.
type BunStore[T Entity[T]] struct {
	db       *bun.DB
	kind     Kind
	table    string
	recorder QueryRecorder
}

func NewBunStore[T Entity[T]](db *bun.DB, kind Kind, table string, recorder QueryRecorder) *BunStore[T] {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &BunStore[T]{
		db:       db,
		kind:     kind,
		table:    table,
		recorder: recorder,
	}
}

func (s *BunStore[T]) List(ctx context.Context) ([]T, error) {
	start := time.Now()
	var rows []T
	err := s.db.NewSelect().
		Model(&rows).
		Order("created_at DESC").
		Scan(ctx)

	s.recorder.RecordQuery(ctx, "select", s.table, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Plural, err)
	}
	return rows, nil
}

// SeedIfEmpty inserts recs in one transaction when the table has no rows.
func (s *BunStore[T]) SeedIfEmpty(ctx context.Context, recs ...T) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	inserted := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		start := time.Now()
		count, err := tx.NewSelect().Model((*T)(nil)).Count(ctx)
		s.recorder.RecordQuery(ctx, "select", s.table, time.Since(start), err)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		start = time.Now()
		_, err = tx.NewInsert().Model(&recs).Exec(ctx)
		s.recorder.RecordQuery(ctx, "insert", s.table, time.Since(start), err)
		if err != nil {
			return err
		}
		inserted = len(recs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", s.kind.Plural, err)
	}
	return inserted, nil
}

func (s *BunStore[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	start := time.Now()
	var rec T
	err := s.db.NewSelect().Model(&rec).Where("id = ?", id).Scan(ctx)

	s.recorder.RecordQuery(ctx, "select", s.table, time.Since(start), err)

	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s %s: %w", s.kind.Name, id, ErrNotFound)
		}
		return zero, fmt.Errorf("get %s %s: %w", s.kind.Name, id, err)
	}
	return rec, nil
}

func (s *BunStore[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, err
	}
	rec = rec.WithIdentity(uuid.New(), time.Now().UTC())

	start := time.Now()
	_, err := s.db.NewInsert().Model(&rec).Returning("*").Exec(ctx)

	s.recorder.RecordQuery(ctx, "insert", s.table, time.Since(start), err)

	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.kind.Name, err)
	}
	return rec, nil
}

func (s *BunStore[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	start := time.Now()
	result, err := s.db.NewUpdate().
		Model(&rec).
		WherePK().
		ExcludeColumn("created_at").
		Returning("*").
		Exec(ctx)

	s.recorder.RecordQuery(ctx, "update", s.table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("%s %s: %w", s.kind.Name, rec.GetID(), ErrNotFound)
		}
		return zero, fmt.Errorf("update %s %s: %w", s.kind.Name, rec.GetID(), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return zero, err
	}
	if rowsAffected == 0 {
		return zero, fmt.Errorf("%s %s: %w", s.kind.Name, rec.GetID(), ErrNotFound)
	}
	return rec, nil
}

func (s *BunStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	result, err := s.db.NewDelete().
		Model((*T)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	s.recorder.RecordQuery(ctx, "delete", s.table, time.Since(start), err)

	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.kind.Name, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", s.kind.Name, id, ErrNotFound)
	}
	return nil
}
