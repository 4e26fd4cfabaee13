package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/workflow"
)

type decisionRepository struct {
	db *DB
}

var _ decision.Repository = (*decisionRepository)(nil) // interface compliance check

func NewDecisionRepository(db *DB) *decisionRepository {
	return &decisionRepository{db: db}
}

func (repo *decisionRepository) GetState(ctx context.Context, kind workflow.Kind, id int) (workflow.State, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch kind {
	case workflow.KindProgramme:
		if prog, ok := repo.db.programmes[id]; ok {
			return prog.State, nil
		}
	case workflow.KindCourse:
		if course, ok := repo.db.courses[id]; ok {
			return course.State, nil
		}
	case workflow.KindMemoir:
		if mem, ok := repo.db.memoirs[id]; ok {
			return mem.State, nil
		}
	case workflow.KindEnrollment:
		if enr, ok := repo.db.enrollments[id]; ok {
			return enr.State, nil
		}
	}
	return workflow.State{}, decision.ErrNotFound
}

// ApplyDecision writes the new state and appends the log record under one lock,
// mirroring the single-entity transaction of the SQL store.
func (repo *decisionRepository) ApplyDecision(ctx context.Context, kind workflow.Kind, id int, st workflow.State, rec decision.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	switch kind {
	case workflow.KindProgramme:
		if prog, ok := repo.db.programmes[id]; ok {
			prog.State = st
			repo.db.records = append(repo.db.records, rec)
			return nil
		}
	case workflow.KindCourse:
		if course, ok := repo.db.courses[id]; ok {
			course.State = st
			repo.db.records = append(repo.db.records, rec)
			return nil
		}
	case workflow.KindMemoir:
		if mem, ok := repo.db.memoirs[id]; ok {
			mem.State = st
			repo.db.records = append(repo.db.records, rec)
			return nil
		}
	case workflow.KindEnrollment:
		if enr, ok := repo.db.enrollments[id]; ok {
			enr.State = st
			repo.db.records = append(repo.db.records, rec)
			return nil
		}
	}
	return decision.ErrNotFound
}

func (repo *decisionRepository) OwnerEmail(ctx context.Context, kind workflow.Kind, id int) (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch kind {
	case workflow.KindProgramme:
		if prog, ok := repo.db.programmes[id]; ok {
			if inst, ok := repo.db.institutions[prog.InstitutionID]; ok {
				return inst.Email, nil
			}
		}
	case workflow.KindCourse:
		if course, ok := repo.db.courses[id]; ok {
			if t, ok := repo.db.teachers[course.TeacherID]; ok {
				return t.Email, nil
			}
		}
	case workflow.KindMemoir:
		if mem, ok := repo.db.memoirs[id]; ok {
			if t, ok := repo.db.trainees[mem.TraineeID]; ok {
				return t.Email, nil
			}
		}
	case workflow.KindEnrollment:
		if enr, ok := repo.db.enrollments[id]; ok {
			if t, ok := repo.db.trainees[enr.TraineeID]; ok {
				return t.Email, nil
			}
		}
	}
	return "", decision.ErrNotFound
}

func (repo *decisionRepository) QueryRecords(ctx context.Context, filter decision.RecordFilter, ordering ...core.DBOrdering) ([]decision.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]decision.Record, 0, len(repo.db.records))
	for _, rec := range repo.db.records {
		if filter.Kind != "" && rec.Kind != filter.Kind {
			continue
		}
		if filter.EntityID != 0 && rec.EntityID != filter.EntityID {
			continue
		}
		recs = append(recs, rec)
	}

	ascending := true
	for _, ord := range ordering {
		if ord.Field == "decided_at" {
			ascending = ord.Ascending
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if ascending {
			return recs[i].DecidedAt.Before(recs[j].DecidedAt)
		}
		return recs[i].DecidedAt.After(recs[j].DecidedAt)
	})
	return recs, nil
}
