package visitor

import (
	"context"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/directory"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusIn  Status = "In"
	StatusOut Status = "Out"
)

var Kind = crud.Kind{Name: "visitor", Plural: "visitors"}

type Visitor struct {
	bun.BaseModel `bun:"table:visitors,alias:v"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	VisitorName  string     `bun:"visitor_name,notnull" json:"visitorName" validate:"required"`
	StudentID    uuid.UUID  `bun:"student_id,type:uuid,notnull" json:"studentId"`
	CheckInTime  time.Time  `bun:"check_in_time,notnull" json:"checkInTime"`
	CheckOutTime *time.Time `bun:"check_out_time" json:"checkOutTime"`
	Status       Status     `bun:"status,notnull" json:"status" validate:"required,oneof=In Out"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
}

func (v Visitor) GetID() uuid.UUID        { return v.ID }
func (v Visitor) GetCreatedAt() time.Time { return v.CreatedAt }
func (v Visitor) StatusLabel() string     { return string(v.Status) }

func (v Visitor) WithIdentity(id uuid.UUID, createdAt time.Time) Visitor {
	v.ID = id
	v.CreatedAt = createdAt
	return v
}

func (v Visitor) Matches(term string) bool {
	return crud.ContainsFold(term, v.VisitorName, string(v.Status))
}

// Validate enforces that a visitor has a check-out time exactly when they
// have left, and that it does not precede the check-in.
func (v Visitor) Validate() error {
	if err := crud.ValidateStruct(v); err != nil {
		return err
	}
	if v.StudentID == uuid.Nil {
		return crud.Invalid("studentId is required")
	}
	if v.CheckInTime.IsZero() {
		return crud.Invalid("checkInTime is required")
	}
	switch {
	case v.Status == StatusOut && v.CheckOutTime == nil:
		return crud.Invalid("a visitor who is out needs a checkOutTime")
	case v.Status == StatusIn && v.CheckOutTime != nil:
		return crud.Invalid("a visitor who is in cannot have a checkOutTime")
	case v.CheckOutTime != nil && v.CheckOutTime.Before(v.CheckInTime):
		return crud.Invalid("checkOutTime is before checkInTime")
	}
	return nil
}

// Detail is the display form of a visitor.
type Detail struct {
	Visitor
	StudentName string `json:"studentName"`
}

// Expander resolves host student names for visitor responses.
type Expander struct {
	lookup directory.Lookup
}

func NewExpander(lookup directory.Lookup) *Expander {
	return &Expander{lookup: lookup}
}

func (e *Expander) Expand(ctx context.Context, items []Visitor) ([]any, error) {
	names, err := e.lookup.StudentNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = Detail{Visitor: v, StudentName: directory.Name(names, v.StudentID)}
	}
	return out, nil
}
