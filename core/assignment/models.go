package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
)

// Assignment grants a teacher a module for one academic period: "this teacher may
// submit/see courses for this module in this period". Unique per
// (teacher, module, year, semester).
type Assignment struct {
	ID           int       `json:"id"`
	TeacherID    int       `json:"teacher_id"`
	ModuleID     int       `json:"module_id"`
	AcademicYear string    `json:"academic_year"` // session start date, e.g. "2024-09-01"
	Semester     string    `json:"semester"`      // S1 | S2
	CreatedAt    time.Time `json:"created_at"`    // UTC
}

// NewAssignment contains information needed to assign a module to a teacher.
type NewAssignment struct {
	TeacherID    int    `json:"teacher_id" validate:"required"`
	ModuleID     int    `json:"module_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required,academicyear"`
	Semester     string `json:"semester" validate:"required,semester"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.AcademicYear = core.CleanString(na.AcademicYear)
	na.Semester = core.CleanString(na.Semester)
	return validate.Struct(na)
}

// NewSupervision contains information needed to pair a trainee with a supervising
// teacher, creating the trainee's memoir.
type NewSupervision struct {
	TraineeID int `json:"trainee_id" validate:"required"`
	TeacherID int `json:"teacher_id" validate:"required"`
}

func (ns *NewSupervision) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

type Filter struct {
	TeacherID    int
	ModuleID     int
	AcademicYear string
	Semester     string
}
