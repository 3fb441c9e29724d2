// Package directory resolves the foreign keys held by fees, visitors and
// maintenance requests into display values.
package directory

import (
	"context"
	"fmt"

	"hostel-service/internal/crud"
	"hostel-service/internal/room"
	"hostel-service/internal/student"

	"github.com/google/uuid"
)

// Unknown is shown in place of a name whose record no longer exists.
const Unknown = "Unknown"

// Lookup loads id-to-display maps for referenced records.
type Lookup interface {
	StudentNames(ctx context.Context) (map[uuid.UUID]string, error)
	RoomNumbers(ctx context.Context) (map[uuid.UUID]int, error)
}

type Directory struct {
	students crud.Store[student.Student]
	rooms    crud.Store[room.Room]
}

func New(students crud.Store[student.Student], rooms crud.Store[room.Room]) *Directory {
	return &Directory{students: students, rooms: rooms}
}

func (d *Directory) StudentNames(ctx context.Context) (map[uuid.UUID]string, error) {
	all, err := d.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve student names: %w", err)
	}
	names := make(map[uuid.UUID]string, len(all))
	for _, s := range all {
		names[s.ID] = s.FullName
	}
	return names, nil
}

func (d *Directory) RoomNumbers(ctx context.Context) (map[uuid.UUID]int, error) {
	all, err := d.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve room numbers: %w", err)
	}
	numbers := make(map[uuid.UUID]int, len(all))
	for _, r := range all {
		numbers[r.ID] = r.Number
	}
	return numbers, nil
}

// Name returns the name for id, or Unknown.
func Name(names map[uuid.UUID]string, id uuid.UUID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return Unknown
}
