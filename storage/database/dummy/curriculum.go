package dummydb

import (
	"context"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/curriculum"
)

type curriculumRepository struct {
	db *DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *DB) *curriculumRepository {
	return &curriculumRepository{db: db}
}

func (repo *curriculumRepository) CreateProgramme(ctx context.Context, prog curriculum.Programme) (curriculum.Programme, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prog.ID = repo.db.nextID()
	repo.db.programmes[prog.ID] = &prog
	return prog, nil
}

func (repo *curriculumRepository) GetProgramme(ctx context.Context, id int) (curriculum.Programme, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prog, ok := repo.db.programmes[id]; ok {
		return *prog, nil
	}
	return curriculum.Programme{}, curriculum.ErrProgrammeNotFound
}

func (repo *curriculumRepository) QueryProgrammes(ctx context.Context, filter curriculum.ProgrammeFilter, ordering ...core.DBOrdering) ([]curriculum.Programme, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.programmes))
	for id, prog := range repo.db.programmes {
		if filter.ModuleIDs != nil && !containsInt(filter.ModuleIDs, prog.ModuleID) {
			continue
		}
		if filter.InstitutionID != 0 && prog.InstitutionID != filter.InstitutionID {
			continue
		}
		if filter.Status != "" && prog.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids, ordering)

	progs := make([]curriculum.Programme, 0, len(ids))
	for _, id := range ids {
		progs = append(progs, *repo.db.programmes[id])
	}
	return progs, nil
}

func (repo *curriculumRepository) UpdateProgramme(ctx context.Context, prog curriculum.Programme) (curriculum.Programme, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.programmes[prog.ID]; !ok {
		return curriculum.Programme{}, curriculum.ErrProgrammeNotFound
	}
	repo.db.programmes[prog.ID] = &prog
	return prog, nil
}

func (repo *curriculumRepository) CreateCourse(ctx context.Context, course curriculum.Course) (curriculum.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	course.ID = repo.db.nextID()
	repo.db.courses[course.ID] = &course
	return course, nil
}

func (repo *curriculumRepository) GetCourse(ctx context.Context, id int) (curriculum.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if course, ok := repo.db.courses[id]; ok {
		return *course, nil
	}
	return curriculum.Course{}, curriculum.ErrCourseNotFound
}

func (repo *curriculumRepository) QueryCourses(ctx context.Context, filter curriculum.CourseFilter, ordering ...core.DBOrdering) ([]curriculum.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.courses))
	for id, course := range repo.db.courses {
		if filter.ModuleIDs != nil && !containsInt(filter.ModuleIDs, course.ModuleID) {
			continue
		}
		if filter.TeacherID != 0 && course.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && course.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids, ordering)

	courses := make([]curriculum.Course, 0, len(ids))
	for _, id := range ids {
		courses = append(courses, *repo.db.courses[id])
	}
	return courses, nil
}

func (repo *curriculumRepository) UpdateCourse(ctx context.Context, course curriculum.Course) (curriculum.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[course.ID]; !ok {
		return curriculum.Course{}, curriculum.ErrCourseNotFound
	}
	repo.db.courses[course.ID] = &course
	return course, nil
}

func containsInt(ids []int, id int) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
