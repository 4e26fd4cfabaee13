package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	// errors
	ErrNotFound        = errors.New("assignment not found")
	ErrDuplicate       = errors.New("assignment already exists")
	ErrAlreadyAssigned = errors.New("trainee already has a memoir")
)

type (
	Repository interface {
		// CreateAssignment inserts the tuple; returns ErrDuplicate when an identical
		// (teacher, module, year, semester) tuple already exists.
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, teacherID, moduleID int, year, semester string) (Assignment, error)
		DeleteAssignment(ctx context.Context, teacherID, moduleID int, year string) error
		QueryAssignments(ctx context.Context, filter Filter) ([]Assignment, error)
		// QueryTeacherModuleIDs returns the distinct module ids currently assigned to
		// the teacher, across all periods.
		QueryTeacherModuleIDs(ctx context.Context, teacherID int) ([]int, error)
	}

	Service struct {
		repo        Repository
		catalogRepo catalog.Repository
		memoirRepo  memoir.Repository
	}
)

func NewService(repo Repository, catalogRepo catalog.Repository, memoirRepo memoir.Repository) *Service {
	return &Service{repo: repo, catalogRepo: catalogRepo, memoirRepo: memoirRepo}
}

// AssignModule grants the module to the teacher for the given period. Re-submitting
// an identical tuple is a no-op success; duplicate=true lets callers that care branch
// on it.
func (svc *Service) AssignModule(ctx context.Context, na NewAssignment, validate *validator.Validate) (asg Assignment, duplicate bool, err error) {
	if err = na.Validate(validate); err != nil {
		return Assignment{}, false, err
	}
	if _, err = svc.catalogRepo.GetTeacher(ctx, na.TeacherID); err != nil {
		return Assignment{}, false, err
	}
	if _, err = svc.catalogRepo.GetModule(ctx, na.ModuleID); err != nil {
		return Assignment{}, false, err
	}

	asg, err = svc.repo.CreateAssignment(ctx, Assignment{
		TeacherID:    na.TeacherID,
		ModuleID:     na.ModuleID,
		AcademicYear: na.AcademicYear,
		Semester:     na.Semester,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			existing, getErr := svc.repo.GetAssignment(ctx, na.TeacherID, na.ModuleID, na.AcademicYear, na.Semester)
			if getErr != nil {
				return Assignment{}, false, getErr
			}
			return existing, true, nil
		}
		return Assignment{}, false, err
	}
	return asg, false, nil
}

// Unassign removes the teacher's grant for the module in the given year. Courses
// already accepted for that module are unaffected; visibility scoping only checks
// the assignment set current at query time.
func (svc *Service) Unassign(ctx context.Context, teacherID, moduleID int, year string) error {
	return svc.repo.DeleteAssignment(ctx, teacherID, moduleID, year)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, filter)
}

// AssignSupervisor pairs the trainee with a supervising teacher by creating the
// trainee's memoir (status: submitted). A trainee has at most one memoir; a second
// pairing attempt fails with ErrAlreadyAssigned and leaves the existing supervisor
// untouched.
func (svc *Service) AssignSupervisor(ctx context.Context, ns NewSupervision, validate *validator.Validate) (memoir.Memoir, error) {
	if err := ns.Validate(validate); err != nil {
		return memoir.Memoir{}, err
	}
	if _, err := svc.catalogRepo.GetTrainee(ctx, ns.TraineeID); err != nil {
		return memoir.Memoir{}, err
	}
	if _, err := svc.catalogRepo.GetTeacher(ctx, ns.TeacherID); err != nil {
		return memoir.Memoir{}, err
	}

	if _, err := svc.memoirRepo.GetMemoirByTrainee(ctx, ns.TraineeID); err == nil {
		return memoir.Memoir{}, ErrAlreadyAssigned
	} else if !errors.Is(err, memoir.ErrNotFound) {
		return memoir.Memoir{}, err
	}

	now := time.Now().UTC()
	return svc.memoirRepo.CreateMemoir(ctx, memoir.Memoir{
		TraineeID: ns.TraineeID,
		TeacherID: ns.TeacherID,
		State:     workflow.NewState(workflow.KindMemoir, now),
		CreatedAt: now,
	})
}
