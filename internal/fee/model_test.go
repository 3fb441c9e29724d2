package fee

import (
	"context"
	"testing"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/directory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLookup struct {
	names map[uuid.UUID]string
}

func (l staticLookup) StudentNames(context.Context) (map[uuid.UUID]string, error) {
	return l.names, nil
}

func (l staticLookup) RoomNumbers(context.Context) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

func TestFee_Validate(t *testing.T) {
	paidAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	base := Fee{
		StudentID:   uuid.New(),
		AmountCents: 75000,
		DueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      StatusDue,
	}
	assert.NoError(t, base.Validate())

	paid := base
	paid.Status = StatusPaid
	paid.PaymentDate = &paidAt
	assert.NoError(t, paid.Validate())

	tests := []struct {
		name   string
		mutate func(f *Fee)
		want   string
	}{
		{"paid without date", func(f *Fee) { f.Status = StatusPaid }, "needs a paymentDate"},
		{"overdue with date", func(f *Fee) { f.Status = StatusOverdue; f.PaymentDate = &paidAt }, "only set on paid fees"},
		{"zero amount", func(f *Fee) { f.AmountCents = 0 }, "amountCents failed gt"},
		{"no student", func(f *Fee) { f.StudentID = uuid.Nil }, "studentId is required"},
		{"no due date", func(f *Fee) { f.DueDate = time.Time{} }, "dueDate is required"},
		{"unknown status", func(f *Fee) { f.Status = "Waived" }, "status must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			err := f.Validate()
			assert.ErrorIs(t, err, crud.ErrValidation)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestFee_Amount(t *testing.T) {
	assert.Equal(t, "$712.40", Fee{AmountCents: 71240}.Amount())
	assert.Equal(t, "$500.05", Fee{AmountCents: 50005}.Amount())
}

func TestExpander_ResolvesStudentNames(t *testing.T) {
	known := uuid.New()
	exp := NewExpander(staticLookup{names: map[uuid.UUID]string{known: "Omar Haddad"}})

	out, err := exp.Expand(context.Background(), []Fee{
		{StudentID: known, AmountCents: 90000, Status: StatusDue},
		{StudentID: uuid.New(), AmountCents: 60000, Status: StatusOverdue},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0].(Detail)
	assert.Equal(t, "Omar Haddad", first.StudentName)
	assert.Equal(t, "$900.00", first.Amount)
	assert.Equal(t, directory.Unknown, out[1].(Detail).StudentName)
}
