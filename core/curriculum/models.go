package curriculum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/workflow"
)

// Programme is a curriculum submission authored by a regional institution for one module.
type Programme struct {
	ID            int    `json:"id"`
	ModuleID      int    `json:"module_id"`
	InstitutionID int    `json:"institution_id"` // owning regional institution
	Title         string `json:"title"`
	Document      string `json:"document,omitempty"` // opaque file-storage reference
	workflow.State
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Course is a teaching-unit submission authored by a teacher for one of their
// assigned modules.
type Course struct {
	ID        int    `json:"id"`
	ModuleID  int    `json:"module_id"`
	TeacherID int    `json:"teacher_id"`
	Title     string `json:"title"`
	Document  string `json:"document,omitempty"`
	workflow.State
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewSubmission contains information needed to submit a new Programme or Course.
type NewSubmission struct {
	ModuleID int    `json:"module_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Document string `json:"document"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.Document = core.CleanString(ns.Document)
	return validate.Struct(ns)
}

// UpdateSubmission defines the content fields the owning actor may edit pre-acceptance.
type UpdateSubmission struct {
	Title    string `json:"title"`
	Document string `json:"document"`
}

func (us *UpdateSubmission) Clean() {
	us.Title = core.CleanString(us.Title)
	us.Document = core.CleanString(us.Document)
}

type (
	// ProgrammeFilter applies AND operation on set fields; a nil ModuleIDs means no
	// module filter.
	ProgrammeFilter struct {
		ModuleIDs     []int
		InstitutionID int
		Status        workflow.Status
	}

	CourseFilter struct {
		ModuleIDs []int
		TeacherID int
		Status    workflow.Status
	}
)
