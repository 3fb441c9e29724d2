package room

import (
	"testing"

	"hostel-service/internal/crud"

	"github.com/stretchr/testify/assert"
)

func TestRoom_Validate(t *testing.T) {
	tests := []struct {
		name string
		room Room
		err  string
	}{
		{"occupied double", Room{Number: 204, Type: TypeDouble, Status: StatusOccupied, Occupants: 2}, ""},
		{"vacant single", Room{Number: 101, Type: TypeSingle, Status: StatusVacant}, ""},
		{"under repair", Room{Number: 420, Type: TypeTriple, Status: StatusMaintenance}, ""},
		{"number too low", Room{Number: 100, Type: TypeSingle, Status: StatusVacant}, "roomNumber must be at least 101"},
		{"number too high", Room{Number: 421, Type: TypeSingle, Status: StatusVacant}, "roomNumber must be at most 420"},
		{"unknown type", Room{Number: 150, Type: "Suite", Status: StatusVacant}, "type must be one of"},
		{"occupied but empty", Room{Number: 150, Type: TypeSingle, Status: StatusOccupied}, "at least one occupant"},
		{"vacant with occupants", Room{Number: 150, Type: TypeDouble, Status: StatusVacant, Occupants: 1}, "cannot have occupants"},
		{"over capacity", Room{Number: 150, Type: TypeDouble, Status: StatusOccupied, Occupants: 3}, "holds at most 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.room.Validate()
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, crud.ErrValidation)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestRoom_Availability(t *testing.T) {
	assert.Equal(t, "2 Occupant(s)", Room{Status: StatusOccupied, Occupants: 2}.Availability())
	assert.Equal(t, "Available", Room{Status: StatusVacant}.Availability())
	assert.Equal(t, "Under Repair", Room{Status: StatusMaintenance}.Availability())
}

func TestRoom_Matches(t *testing.T) {
	r := Room{Number: 312, Type: TypeTriple, Status: StatusVacant}
	assert.True(t, r.Matches("312"))
	assert.True(t, r.Matches("triple"))
	assert.False(t, r.Matches("single"))
}

func TestType_Capacity(t *testing.T) {
	assert.Equal(t, 1, TypeSingle.Capacity())
	assert.Equal(t, 3, TypeTriple.Capacity())
	assert.Equal(t, 0, Type("Dorm").Capacity())
}
