// Package report renders the occupancy, fee collection and visitor log
// exports as CSV.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"hostel-service/internal/dashboard"
	"hostel-service/internal/directory"
)

// Kind names a report.
type Kind string

const (
	Occupancy Kind = "occupancy"
	Fees      Kind = "fees"
	Visitors  Kind = "visitors"
)

var ErrUnknownReport = errors.New("unknown report")

// Kinds lists the available reports.
func Kinds() []Kind { return []Kind{Occupancy, Fees, Visitors} }

type Generator struct {
	stores dashboard.Stores
	lookup directory.Lookup
}

func NewGenerator(stores dashboard.Stores, lookup directory.Lookup) *Generator {
	return &Generator{stores: stores, lookup: lookup}
}

// Write renders report k to w.
func (g *Generator) Write(ctx context.Context, k Kind, w io.Writer) error {
	cw := csv.NewWriter(w)

	var err error
	switch k {
	case Occupancy:
		err = g.occupancy(ctx, cw)
	case Fees:
		err = g.fees(ctx, cw)
	case Visitors:
		err = g.visitors(ctx, cw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownReport, k)
	}
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func (g *Generator) occupancy(ctx context.Context, cw *csv.Writer) error {
	rooms, err := g.stores.Rooms.List(ctx)
	if err != nil {
		return err
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })

	if err := cw.Write([]string{"room", "type", "status", "occupants", "capacity", "availability"}); err != nil {
		return err
	}
	for _, r := range rooms {
		err := cw.Write([]string{
			strconv.Itoa(r.Number),
			string(r.Type),
			string(r.Status),
			strconv.Itoa(r.Occupants),
			strconv.Itoa(r.Type.Capacity()),
			r.Availability(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) fees(ctx context.Context, cw *csv.Writer) error {
	fees, err := g.stores.Fees.List(ctx)
	if err != nil {
		return err
	}
	names, err := g.lookup.StudentNames(ctx)
	if err != nil {
		return err
	}

	if err := cw.Write([]string{"student", "amount", "due_date", "status", "payment_date"}); err != nil {
		return err
	}
	for _, f := range fees {
		err := cw.Write([]string{
			directory.Name(names, f.StudentID),
			f.Amount(),
			f.DueDate.Format(time.DateOnly),
			string(f.Status),
			formatOptional(f.PaymentDate, time.DateOnly),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitors(ctx context.Context, cw *csv.Writer) error {
	visitors, err := g.stores.Visitors.List(ctx)
	if err != nil {
		return err
	}
	names, err := g.lookup.StudentNames(ctx)
	if err != nil {
		return err
	}

	if err := cw.Write([]string{"visitor", "host", "check_in", "check_out", "status"}); err != nil {
		return err
	}
	for _, v := range visitors {
		err := cw.Write([]string{
			v.VisitorName,
			directory.Name(names, v.StudentID),
			v.CheckInTime.Format(time.RFC3339),
			formatOptional(v.CheckOutTime, time.RFC3339),
			string(v.Status),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func formatOptional(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}
