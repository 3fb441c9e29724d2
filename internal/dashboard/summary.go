// Package dashboard computes the landing-page summary across record kinds.
package dashboard

import (
	"math"

	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"
)

// Collections are the loaded records a summary is computed from.
type Collections struct {
	Students    []student.Student
	Rooms       []room.Room
	Fees        []fee.Fee
	Visitors    []visitor.Visitor
	Maintenance []maintenance.Request
}

type Summary struct {
	TotalStudents      int   `json:"totalStudents"`
	TotalRooms         int   `json:"totalRooms"`
	OccupiedRooms      int   `json:"occupiedRooms"`
	OccupancyRate      int   `json:"occupancyRate"`
	PendingMaintenance int   `json:"pendingMaintenance"`
	OverdueFees        int   `json:"overdueFees"`
	VisitorsIn         int   `json:"visitorsIn"`
	OutstandingCents   int64 `json:"outstandingCents"`
}

// Summarize has no side effects.
func Summarize(c Collections) Summary {
	s := Summary{
		TotalStudents: len(c.Students),
		TotalRooms:    len(c.Rooms),
	}

	for _, r := range c.Rooms {
		if r.Status == room.StatusOccupied {
			s.OccupiedRooms++
		}
	}
	s.OccupancyRate = OccupancyRate(s.OccupiedRooms, s.TotalRooms)

	for _, m := range c.Maintenance {
		if m.Status == maintenance.StatusPending {
			s.PendingMaintenance++
		}
	}

	for _, f := range c.Fees {
		if f.Status == fee.StatusOverdue {
			s.OverdueFees++
		}
		if f.Status != fee.StatusPaid {
			s.OutstandingCents += f.AmountCents
		}
	}

	for _, v := range c.Visitors {
		if v.Status == visitor.StatusIn {
			s.VisitorsIn++
		}
	}

	return s
}

// OccupancyRate is occupied/total as a whole percentage, 0 when there are
// no rooms.
func OccupancyRate(occupied, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(occupied) * 100 / float64(total)))
}
