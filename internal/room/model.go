package room

import (
	"fmt"
	"time"

	"hostel-service/internal/crud"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Type string

const (
	TypeSingle Type = "Single"
	TypeDouble Type = "Double"
	TypeTriple Type = "Triple"
)

// Capacity is the number of beds in a room of this type.
func (t Type) Capacity() int {
	switch t {
	case TypeSingle:
		return 1
	case TypeDouble:
		return 2
	case TypeTriple:
		return 3
	}
	return 0
}

type Status string

const (
	StatusOccupied    Status = "Occupied"
	StatusVacant      Status = "Vacant"
	StatusMaintenance Status = "Maintenance"
)

const (
	MinNumber = 101
	MaxNumber = 420
)

var Kind = crud.Kind{Name: "room", Plural: "rooms"}

type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Number    int       `bun:"number,notnull" json:"roomNumber" validate:"min=101,max=420"`
	Type      Type      `bun:"type,notnull" json:"type" validate:"required,oneof=Single Double Triple"`
	Status    Status    `bun:"status,notnull" json:"status" validate:"required,oneof=Occupied Vacant Maintenance"`
	Occupants int       `bun:"occupants,notnull" json:"occupants" validate:"min=0"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (r Room) GetID() uuid.UUID        { return r.ID }
func (r Room) GetCreatedAt() time.Time { return r.CreatedAt }
func (r Room) StatusLabel() string     { return string(r.Status) }

func (r Room) WithIdentity(id uuid.UUID, createdAt time.Time) Room {
	r.ID = id
	r.CreatedAt = createdAt
	return r
}

func (r Room) Matches(term string) bool {
	return crud.ContainsFold(term, fmt.Sprint(r.Number), string(r.Type), string(r.Status))
}

// Validate enforces that a room has occupants exactly when it is occupied
// and never more than its type holds.
func (r Room) Validate() error {
	if err := crud.ValidateStruct(r); err != nil {
		return err
	}
	if r.Status == StatusOccupied && r.Occupants == 0 {
		return crud.Invalid("an occupied room needs at least one occupant")
	}
	if r.Status != StatusOccupied && r.Occupants != 0 {
		return crud.Invalid("a %s room cannot have occupants", r.Status)
	}
	if r.Occupants > r.Type.Capacity() {
		return crud.Invalid("a %s room holds at most %d occupants", r.Type, r.Type.Capacity())
	}
	return nil
}

// Availability is the short occupancy line shown next to a room.
func (r Room) Availability() string {
	switch r.Status {
	case StatusOccupied:
		return fmt.Sprintf("%d Occupant(s)", r.Occupants)
	case StatusVacant:
		return "Available"
	case StatusMaintenance:
		return "Under Repair"
	}
	return string(r.Status)
}
