package maintenance

import (
	"context"
	"strconv"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/directory"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

var Kind = crud.Kind{Name: "maintenance", Plural: "maintenance"}

// Issues commonly reported by residents.
var Issues = []string{"Leaky Faucet", "Broken Light", "Wi-Fi Down", "AC Not Cooling"}

type Request struct {
	bun.BaseModel `bun:"table:maintenance_requests,alias:m"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Issue      string    `bun:"issue,notnull" json:"issue" validate:"required"`
	RoomID     uuid.UUID `bun:"room_id,type:uuid,notnull" json:"roomId"`
	ReporterID uuid.UUID `bun:"reporter_id,type:uuid,notnull" json:"reporterId"`
	ReportedAt time.Time `bun:"reported_at,notnull" json:"reportedAt"`
	Status     Status    `bun:"status,notnull" json:"status"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (r Request) GetID() uuid.UUID        { return r.ID }
func (r Request) GetCreatedAt() time.Time { return r.CreatedAt }
func (r Request) StatusLabel() string     { return string(r.Status) }

func (r Request) WithIdentity(id uuid.UUID, createdAt time.Time) Request {
	r.ID = id
	r.CreatedAt = createdAt
	return r
}

func (r Request) Matches(term string) bool {
	return crud.ContainsFold(term, r.Issue, string(r.Status))
}

func (r Request) Validate() error {
	if err := crud.ValidateStruct(r); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return crud.Invalid("status must be one of [Pending, In Progress, Resolved]")
	}
	if r.RoomID == uuid.Nil {
		return crud.Invalid("roomId is required")
	}
	if r.ReporterID == uuid.Nil {
		return crud.Invalid("reporterId is required")
	}
	if r.ReportedAt.IsZero() {
		return crud.Invalid("reportedAt is required")
	}
	return nil
}

// Detail is the display form of a maintenance request. RoomNumber is null
// and Room reads directory.Unknown when the room no longer exists.
type Detail struct {
	Request
	RoomNumber *int   `json:"roomNumber"`
	Room       string `json:"room"`
	ReportedBy string `json:"reportedBy"`
}

// Expander resolves room numbers and reporter names.
type Expander struct {
	lookup directory.Lookup
}

func NewExpander(lookup directory.Lookup) *Expander {
	return &Expander{lookup: lookup}
}

func (e *Expander) Expand(ctx context.Context, items []Request) ([]any, error) {
	names, err := e.lookup.StudentNames(ctx)
	if err != nil {
		return nil, err
	}
	numbers, err := e.lookup.RoomNumbers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, r := range items {
		d := Detail{
			Request:    r,
			Room:       directory.Unknown,
			ReportedBy: directory.Name(names, r.ReporterID),
		}
		if n, ok := numbers[r.RoomID]; ok {
			d.RoomNumber = &n
			d.Room = strconv.Itoa(n)
		}
		out[i] = d
	}
	return out, nil
}
