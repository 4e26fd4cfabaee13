package curriculum

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	// errors
	ErrProgrammeNotFound = errors.New("programme not found")
	ErrCourseNotFound    = errors.New("course not found")
)

type (
	Repository interface {
		CreateProgramme(ctx context.Context, prog Programme) (Programme, error)
		GetProgramme(ctx context.Context, id int) (Programme, error)
		QueryProgrammes(ctx context.Context, filter ProgrammeFilter, ordering ...core.DBOrdering) ([]Programme, error)
		UpdateProgramme(ctx context.Context, prog Programme) (Programme, error)

		CreateCourse(ctx context.Context, course Course) (Course, error)
		GetCourse(ctx context.Context, id int) (Course, error)
		QueryCourses(ctx context.Context, filter CourseFilter, ordering ...core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, course Course) (Course, error)
	}

	Service struct {
		repo        Repository
		catalogRepo catalog.Repository
		asgRepo     assignment.Repository
	}
)

func NewService(repo Repository, catalogRepo catalog.Repository, asgRepo assignment.Repository) *Service {
	return &Service{repo: repo, catalogRepo: catalogRepo, asgRepo: asgRepo}
}

// SubmitProgramme creates a pending Programme owned by the acting regional institution.
func (svc *Service) SubmitProgramme(ctx context.Context, actor core.Actor, ns NewSubmission, validate *validator.Validate) (Programme, error) {
	if !actor.IsRegional() {
		return Programme{}, core.ErrNotAuthorized
	}
	if err := ns.Validate(validate); err != nil {
		return Programme{}, err
	}
	if _, err := svc.catalogRepo.GetModule(ctx, ns.ModuleID); err != nil {
		return Programme{}, err
	}

	now := time.Now().UTC()
	prog := Programme{
		ModuleID:      ns.ModuleID,
		InstitutionID: actor.SubjectID,
		Title:         ns.Title,
		Document:      ns.Document,
		State:         workflow.NewState(workflow.KindProgramme, now),
		CreatedAt:     now,
	}
	return svc.repo.CreateProgramme(ctx, prog)
}

// SubmitCourse creates a pending Course. The acting teacher must currently be
// assigned the module.
func (svc *Service) SubmitCourse(ctx context.Context, actor core.Actor, ns NewSubmission, validate *validator.Validate) (Course, error) {
	if !actor.IsTeacher() {
		return Course{}, core.ErrNotAuthorized
	}
	if err := ns.Validate(validate); err != nil {
		return Course{}, err
	}
	if _, err := svc.catalogRepo.GetModule(ctx, ns.ModuleID); err != nil {
		return Course{}, err
	}

	moduleIDs, err := svc.asgRepo.QueryTeacherModuleIDs(ctx, actor.SubjectID)
	if err != nil {
		return Course{}, err
	}
	if !containsInt(moduleIDs, ns.ModuleID) {
		return Course{}, core.ErrNotAuthorized
	}

	now := time.Now().UTC()
	course := Course{
		ModuleID:  ns.ModuleID,
		TeacherID: actor.SubjectID,
		Title:     ns.Title,
		Document:  ns.Document,
		State:     workflow.NewState(workflow.KindCourse, now),
		CreatedAt: now,
	}
	return svc.repo.CreateCourse(ctx, course)
}

// UpdateProgramme edits a programme's content. Only the owning regional institution,
// and only while the programme has not been accepted. Editing never changes the
// status; re-entry after refusal is the explicit ResubmitProgramme operation.
func (svc *Service) UpdateProgramme(ctx context.Context, actor core.Actor, id int, us UpdateSubmission) (Programme, error) {
	prog, err := svc.repo.GetProgramme(ctx, id)
	if err != nil {
		return Programme{}, err
	}
	if !actor.IsRegional() || prog.InstitutionID != actor.SubjectID {
		return Programme{}, core.ErrNotAuthorized
	}
	if err = workflow.EditableContent(workflow.KindProgramme, prog.State); err != nil {
		return Programme{}, err
	}

	us.Clean()
	applyContent(&prog.Title, &prog.Document, us)
	prog.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProgramme(ctx, prog)
}

func (svc *Service) UpdateCourse(ctx context.Context, actor core.Actor, id int, us UpdateSubmission) (Course, error) {
	course, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if !actor.IsTeacher() || course.TeacherID != actor.SubjectID {
		return Course{}, core.ErrNotAuthorized
	}
	if err = workflow.EditableContent(workflow.KindCourse, course.State); err != nil {
		return Course{}, err
	}

	us.Clean()
	applyContent(&course.Title, &course.Document, us)
	course.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, course)
}

// ResubmitProgramme returns a refused programme to pending for a new decision cycle.
func (svc *Service) ResubmitProgramme(ctx context.Context, actor core.Actor, id int) (Programme, error) {
	prog, err := svc.repo.GetProgramme(ctx, id)
	if err != nil {
		return Programme{}, err
	}
	if !actor.IsRegional() || prog.InstitutionID != actor.SubjectID {
		return Programme{}, core.ErrNotAuthorized
	}
	if prog.State, err = workflow.Resubmit(workflow.KindProgramme, prog.State, time.Now()); err != nil {
		return Programme{}, err
	}
	return svc.repo.UpdateProgramme(ctx, prog)
}

func (svc *Service) ResubmitCourse(ctx context.Context, actor core.Actor, id int) (Course, error) {
	course, err := svc.repo.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if !actor.IsTeacher() || course.TeacherID != actor.SubjectID {
		return Course{}, core.ErrNotAuthorized
	}
	if course.State, err = workflow.Resubmit(workflow.KindCourse, course.State, time.Now()); err != nil {
		return Course{}, err
	}
	return svc.repo.UpdateCourse(ctx, course)
}

func applyContent(title, document *string, us UpdateSubmission) {
	if us.Title != "" {
		*title = us.Title
	}
	if us.Document != "" {
		*document = us.Document
	}
}

func containsInt(ids []int, id int) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
