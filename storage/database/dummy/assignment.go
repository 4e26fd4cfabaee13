package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/ufundi/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.assignments {
		if existing.TeacherID == asg.TeacherID && existing.ModuleID == asg.ModuleID &&
			existing.AcademicYear == asg.AcademicYear && existing.Semester == asg.Semester {
			return assignment.Assignment{}, assignment.ErrDuplicate
		}
	}
	asg.ID = repo.db.nextID()
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, teacherID, moduleID int, year, semester string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, asg := range repo.db.assignments {
		if asg.TeacherID == teacherID && asg.ModuleID == moduleID &&
			asg.AcademicYear == year && asg.Semester == semester {
			return *asg, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, teacherID, moduleID int, year string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	deleted := false
	for id, asg := range repo.db.assignments {
		if asg.TeacherID == teacherID && asg.ModuleID == moduleID && asg.AcademicYear == year {
			delete(repo.db.assignments, id)
			deleted = true
		}
	}
	if !deleted {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.Filter) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.assignments))
	for id, asg := range repo.db.assignments {
		if filter.TeacherID != 0 && asg.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ModuleID != 0 && asg.ModuleID != filter.ModuleID {
			continue
		}
		if filter.AcademicYear != "" && asg.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Semester != "" && asg.Semester != filter.Semester {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	asgs := make([]assignment.Assignment, 0, len(ids))
	for _, id := range ids {
		asgs = append(asgs, *repo.db.assignments[id])
	}
	return asgs, nil
}

func (repo *assignmentRepository) QueryTeacherModuleIDs(ctx context.Context, teacherID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[int]bool)
	moduleIDs := make([]int, 0)
	for _, asg := range repo.db.assignments {
		if asg.TeacherID == teacherID && !seen[asg.ModuleID] {
			seen[asg.ModuleID] = true
			moduleIDs = append(moduleIDs, asg.ModuleID)
		}
	}
	sort.Ints(moduleIDs)
	return moduleIDs, nil
}
