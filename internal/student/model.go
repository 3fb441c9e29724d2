package student

import (
	"time"

	"hostel-service/internal/crud"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleStudent Role = "Student"
	RoleStaff   Role = "Staff"
	RoleWarden  Role = "Warden"
)

var Kind = crud.Kind{Name: "student", Plural: "students"}

// Courses offered to residents.
var Courses = []string{"Computer Science", "Mechanical Eng.", "Business Admin.", "Electrical Eng."}

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	FullName  string    `bun:"full_name,notnull" json:"fullName" validate:"required"`
	Email     string    `bun:"email,notnull" json:"email" validate:"required,email"`
	Role      Role      `bun:"role,notnull" json:"role" validate:"required,oneof=Student Staff Warden"`
	Course    *string   `bun:"course" json:"course"`
	Contact   string    `bun:"contact,notnull" json:"contact" validate:"required"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (s Student) GetID() uuid.UUID        { return s.ID }
func (s Student) GetCreatedAt() time.Time { return s.CreatedAt }
func (s Student) StatusLabel() string     { return string(s.Role) }

func (s Student) WithIdentity(id uuid.UUID, createdAt time.Time) Student {
	s.ID = id
	s.CreatedAt = createdAt
	return s
}

func (s Student) Matches(term string) bool {
	course := ""
	if s.Course != nil {
		course = *s.Course
	}
	return crud.ContainsFold(term, s.FullName, s.Email, course, s.Contact)
}

// Validate enforces that only students carry a course.
func (s Student) Validate() error {
	if err := crud.ValidateStruct(s); err != nil {
		return err
	}
	hasCourse := s.Course != nil && *s.Course != ""
	if s.Role == RoleStudent && !hasCourse {
		return crud.Invalid("course is required for students")
	}
	if s.Role != RoleStudent && hasCourse {
		return crud.Invalid("course must be empty for role %s", s.Role)
	}
	return nil
}
