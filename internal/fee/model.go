package fee

import (
	"context"
	"fmt"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/directory"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusDue     Status = "Due"
	StatusOverdue Status = "Overdue"
)

var Kind = crud.Kind{Name: "fee", Plural: "fees"}

type Fee struct {
	bun.BaseModel `bun:"table:fees,alias:f"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	StudentID   uuid.UUID  `bun:"student_id,type:uuid,notnull" json:"studentId"`
	AmountCents int64      `bun:"amount_cents,notnull" json:"amountCents" validate:"gt=0"`
	DueDate     time.Time  `bun:"due_date,notnull" json:"dueDate"`
	Status      Status     `bun:"status,notnull" json:"status" validate:"required,oneof=Paid Due Overdue"`
	PaymentDate *time.Time `bun:"payment_date" json:"paymentDate"`
	CreatedAt   time.Time  `bun:"created_at,notnull" json:"createdAt"`
}

func (f Fee) GetID() uuid.UUID        { return f.ID }
func (f Fee) GetCreatedAt() time.Time { return f.CreatedAt }
func (f Fee) StatusLabel() string     { return string(f.Status) }

func (f Fee) WithIdentity(id uuid.UUID, createdAt time.Time) Fee {
	f.ID = id
	f.CreatedAt = createdAt
	return f
}

func (f Fee) Matches(term string) bool {
	return crud.ContainsFold(term, string(f.Status), f.Amount())
}

// Validate enforces that only paid fees carry a payment date.
func (f Fee) Validate() error {
	if err := crud.ValidateStruct(f); err != nil {
		return err
	}
	if f.StudentID == uuid.Nil {
		return crud.Invalid("studentId is required")
	}
	if f.DueDate.IsZero() {
		return crud.Invalid("dueDate is required")
	}
	if f.Status == StatusPaid && f.PaymentDate == nil {
		return crud.Invalid("a paid fee needs a paymentDate")
	}
	if f.Status != StatusPaid && f.PaymentDate != nil {
		return crud.Invalid("paymentDate is only set on paid fees")
	}
	return nil
}

// Amount formats the amount as dollars, e.g. "$712.40".
func (f Fee) Amount() string {
	return fmt.Sprintf("$%d.%02d", f.AmountCents/100, f.AmountCents%100)
}

// Detail is the display form of a fee.
type Detail struct {
	Fee
	Amount      string `json:"amount"`
	StudentName string `json:"studentName"`
}

// Expander resolves student names for fee responses.
type Expander struct {
	lookup directory.Lookup
}

func NewExpander(lookup directory.Lookup) *Expander {
	return &Expander{lookup: lookup}
}

func (e *Expander) Expand(ctx context.Context, items []Fee) ([]any, error) {
	names, err := e.lookup.StudentNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, f := range items {
		out[i] = Detail{
			Fee:         f,
			Amount:      f.Amount(),
			StudentName: directory.Name(names, f.StudentID),
		}
	}
	return out, nil
}
