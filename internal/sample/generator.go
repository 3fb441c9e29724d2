// Package sample generates the synthetic hostel dataset used for record
// kinds that are not backed by the database.
package sample

import (
	"time"

	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Counts sets how many records of each kind are generated. Fees are always
// one per student.
type Counts struct {
	Students    int `mapstructure:"students"`
	Rooms       int `mapstructure:"rooms"`
	Visitors    int `mapstructure:"visitors"`
	Maintenance int `mapstructure:"maintenance"`
}

func DefaultCounts() Counts {
	return Counts{Students: 25, Rooms: 50, Visitors: 40, Maintenance: 15}
}

type Dataset struct {
	Students    []student.Student
	Rooms       []room.Room
	Fees        []fee.Fee
	Visitors    []visitor.Visitor
	Maintenance []maintenance.Request
}

type Generator struct {
	faker  *gofakeit.Faker
	counts Counts
	now    time.Time
}

// NewGenerator returns a generator whose values are reproducible for a
// given non-zero seed. A zero seed picks a random one.
func NewGenerator(seed uint64, counts Counts, now time.Time) *Generator {
	return &Generator{
		faker:  gofakeit.New(seed),
		counts: counts,
		now:    now.UTC().Truncate(time.Second),
	}
}

func (g *Generator) Generate() Dataset {
	return g.Dependents(g.Residents())
}

// Residents generates the students and rooms that every other kind refers
// to.
func (g *Generator) Residents() ([]student.Student, []room.Room) {
	students := make([]student.Student, 0, g.counts.Students)
	for i := 0; i < g.counts.Students; i++ {
		students = append(students, g.student(i))
	}

	numbers := g.roomNumbers(g.counts.Rooms)
	rooms := make([]room.Room, 0, len(numbers))
	for i, n := range numbers {
		rooms = append(rooms, g.room(i, n))
	}
	return students, rooms
}

// Dependents generates fees, visitors and maintenance requests that point
// at the given students and rooms. They need not come from Residents: a
// database filled by an earlier run works as well.
func (g *Generator) Dependents(students []student.Student, rooms []room.Room) Dataset {
	ds := Dataset{Students: students, Rooms: rooms}

	ds.Fees = make([]fee.Fee, 0, len(students))
	for i, s := range students {
		ds.Fees = append(ds.Fees, g.fee(i, s.ID))
	}

	if len(students) == 0 {
		return ds
	}

	ds.Visitors = make([]visitor.Visitor, 0, g.counts.Visitors)
	for i := 0; i < g.counts.Visitors; i++ {
		host := students[g.faker.Number(0, len(students)-1)]
		ds.Visitors = append(ds.Visitors, g.visitor(i, host.ID))
	}

	if len(rooms) == 0 {
		return ds
	}

	ds.Maintenance = make([]maintenance.Request, 0, g.counts.Maintenance)
	for i := 0; i < g.counts.Maintenance; i++ {
		reporter := students[g.faker.Number(0, len(students)-1)]
		r := rooms[g.faker.Number(0, len(rooms)-1)]
		ds.Maintenance = append(ds.Maintenance, g.maintenance(i, r.ID, reporter.ID))
	}

	return ds
}

func (g *Generator) student(i int) student.Student {
	course := g.faker.RandomString(student.Courses)
	return student.Student{
		ID:        g.id(),
		FullName:  g.faker.Name(),
		Email:     g.faker.Email(),
		Role:      student.RoleStudent,
		Course:    &course,
		Contact:   g.faker.Phone(),
		CreatedAt: g.createdAt(i),
	}
}

// roomNumbers picks n distinct numbers in the valid range.
func (g *Generator) roomNumbers(n int) []int {
	pool := make([]int, 0, room.MaxNumber-room.MinNumber+1)
	for num := room.MinNumber; num <= room.MaxNumber; num++ {
		pool = append(pool, num)
	}
	g.faker.ShuffleInts(pool)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

func (g *Generator) room(i, number int) room.Room {
	typ := room.Type(g.faker.RandomString([]string{
		string(room.TypeSingle), string(room.TypeDouble), string(room.TypeTriple),
	}))
	status := room.Status(g.faker.RandomString([]string{
		string(room.StatusOccupied), string(room.StatusVacant), string(room.StatusMaintenance),
	}))

	occupants := 0
	if status == room.StatusOccupied {
		occupants = g.faker.Number(1, typ.Capacity())
	}

	return room.Room{
		ID:        g.id(),
		Number:    number,
		Type:      typ,
		Status:    status,
		Occupants: occupants,
		CreatedAt: g.createdAt(i),
	}
}

func (g *Generator) fee(i int, studentID uuid.UUID) fee.Fee {
	status := fee.Status(g.faker.RandomString([]string{
		string(fee.StatusPaid), string(fee.StatusDue), string(fee.StatusOverdue),
	}))

	var paid *time.Time
	if status == fee.StatusPaid {
		at := g.now.AddDate(0, 0, -g.faker.Number(1, 90))
		paid = &at
	}

	return fee.Fee{
		ID:          g.id(),
		StudentID:   studentID,
		AmountCents: int64(g.faker.Number(50000, 100000)),
		DueDate:     g.now.AddDate(0, 0, g.faker.Number(1, 180)),
		Status:      status,
		PaymentDate: paid,
		CreatedAt:   g.createdAt(i),
	}
}

func (g *Generator) visitor(i int, hostID uuid.UUID) visitor.Visitor {
	checkIn := g.now.Add(-time.Duration(g.faker.Number(10, 3*24*60)) * time.Minute)
	status := visitor.Status(g.faker.RandomString([]string{string(visitor.StatusIn), string(visitor.StatusOut)}))

	var checkOut *time.Time
	if status == visitor.StatusOut {
		at := g.faker.DateRange(checkIn, g.now)
		if at.Before(checkIn) {
			at = checkIn
		}
		checkOut = &at
	}

	return visitor.Visitor{
		ID:           g.id(),
		VisitorName:  g.faker.Name(),
		StudentID:    hostID,
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
		Status:       status,
		CreatedAt:    g.createdAt(i),
	}
}

func (g *Generator) maintenance(i int, roomID, reporterID uuid.UUID) maintenance.Request {
	return maintenance.Request{
		ID:         g.id(),
		Issue:      g.faker.RandomString(maintenance.Issues),
		RoomID:     roomID,
		ReporterID: reporterID,
		ReportedAt: g.now.Add(-time.Duration(g.faker.Number(10, 3*24*60)) * time.Minute),
		Status: maintenance.Status(g.faker.RandomString([]string{
			string(maintenance.StatusPending), string(maintenance.StatusInProgress), string(maintenance.StatusResolved),
		})),
		CreatedAt: g.createdAt(i),
	}
}

func (g *Generator) id() uuid.UUID {
	return uuid.MustParse(g.faker.UUID())
}

// createdAt spaces records a second apart so that the i-th generated record
// of a kind is the i-th most recent.
func (g *Generator) createdAt(i int) time.Time {
	return g.now.Add(-time.Duration(i+1) * time.Second)
}
