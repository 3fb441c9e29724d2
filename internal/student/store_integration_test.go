//go:build integration

package student_test

import (
	"context"
	"testing"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/metrics"
	"hostel-service/internal/student"
	"hostel-service/testing/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(name string) *string { return &name }

func TestBunStore_Students(t *testing.T) {
	pg := testdb.Start(t, (*student.Student)(nil))
	store := crud.NewBunStore[student.Student](pg.DB, student.Kind, "students", metrics.NewMock().Database)
	ctx := context.Background()

	newStudent := func(name string) student.Student {
		return student.Student{
			FullName: name,
			Email:    "resident@hostel.test",
			Role:     student.RoleStudent,
			Course:   course("Computer Science"),
			Contact:  "+1 555 0100",
		}
	}

	t.Run("CreateThenList", func(t *testing.T) {
		testdb.Truncate(t, pg.DB, "students")

		first, err := store.Create(ctx, newStudent("Ada Park"))
		require.NoError(t, err)
		second, err := store.Create(ctx, newStudent("Ben Osei"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, first.ID)
		assert.False(t, first.CreatedAt.IsZero())

		all, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID, "most recent first")
		assert.Equal(t, first.ID, all[1].ID)
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		testdb.Truncate(t, pg.DB, "students")

		bad := newStudent("No Course")
		bad.Course = nil
		_, err := store.Create(ctx, bad)
		assert.ErrorIs(t, err, crud.ErrValidation)

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, crud.ErrNotFound)
	})

	t.Run("UpdateKeepsCreatedAt", func(t *testing.T) {
		testdb.Truncate(t, pg.DB, "students")

		created, err := store.Create(ctx, newStudent("Cleo Diaz"))
		require.NoError(t, err)

		changed := created
		changed.FullName = "Cleo Diaz-Ruiz"
		changed.Role = student.RoleStaff
		changed.Course = nil
		changed = changed.WithIdentity(created.ID, created.CreatedAt.AddDate(-1, 0, 0))

		updated, err := store.Update(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "Cleo Diaz-Ruiz", updated.FullName)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, student.RoleStaff, got.Role)
		assert.Nil(t, got.Course)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		ghost := newStudent("Ghost").WithIdentity(uuid.New(), time.Time{})
		_, err := store.Update(ctx, ghost)
		assert.ErrorIs(t, err, crud.ErrNotFound)
	})

	t.Run("DeleteThenList", func(t *testing.T) {
		testdb.Truncate(t, pg.DB, "students")

		created, err := store.Create(ctx, newStudent("Dan Moss"))
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, created.ID))

		all, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		assert.ErrorIs(t, store.Delete(ctx, created.ID), crud.ErrNotFound)
	})
}
