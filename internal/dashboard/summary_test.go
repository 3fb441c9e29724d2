package dashboard

import (
	"testing"

	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/stretchr/testify/assert"
)

func TestOccupancyRate(t *testing.T) {
	tests := []struct {
		occupied, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{50, 50, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OccupancyRate(tt.occupied, tt.total), "%d/%d", tt.occupied, tt.total)
	}
}

func TestSummarize(t *testing.T) {
	c := Collections{
		Students: make([]student.Student, 3),
		Rooms: []room.Room{
			{Status: room.StatusOccupied, Occupants: 1},
			{Status: room.StatusVacant},
			{Status: room.StatusMaintenance},
			{Status: room.StatusOccupied, Occupants: 2},
		},
		Fees: []fee.Fee{
			{Status: fee.StatusPaid, AmountCents: 10000},
			{Status: fee.StatusDue, AmountCents: 20000},
			{Status: fee.StatusOverdue, AmountCents: 30000},
		},
		Visitors: []visitor.Visitor{
			{Status: visitor.StatusIn},
			{Status: visitor.StatusOut},
			{Status: visitor.StatusIn},
		},
		Maintenance: []maintenance.Request{
			{Status: maintenance.StatusPending},
			{Status: maintenance.StatusInProgress},
		},
	}

	assert.Equal(t, Summary{
		TotalStudents:      3,
		TotalRooms:         4,
		OccupiedRooms:      2,
		OccupancyRate:      50,
		PendingMaintenance: 1,
		OverdueFees:        1,
		VisitorsIn:         2,
		OutstandingCents:   50000,
	}, Summarize(c))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(Collections{}))
}
