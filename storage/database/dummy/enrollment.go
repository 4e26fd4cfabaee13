package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/enrollment"
)

type enrollmentRepository struct {
	db *DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	enr.ID = repo.db.nextID()
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, id int) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.enrollments[id]; ok {
		return *enr, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter enrollment.Filter, ordering ...core.DBOrdering) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.enrollments))
	for id, enr := range repo.db.enrollments {
		if filter.TraineeID != 0 && enr.TraineeID != filter.TraineeID {
			continue
		}
		if filter.OfferIDs != nil && !containsInt(filter.OfferIDs, enr.OfferID) {
			continue
		}
		if filter.Status != "" && enr.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids, ordering)

	enrs := make([]enrollment.Enrollment, 0, len(ids))
	for _, id := range ids {
		enrs = append(enrs, *repo.db.enrollments[id])
	}
	return enrs, nil
}

func (repo *enrollmentRepository) QueryTraineeOfferIDs(ctx context.Context, traineeID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[int]bool)
	offerIDs := make([]int, 0)
	for _, enr := range repo.db.enrollments {
		if enr.TraineeID == traineeID && !seen[enr.OfferID] {
			seen[enr.OfferID] = true
			offerIDs = append(offerIDs, enr.OfferID)
		}
	}
	sort.Ints(offerIDs)
	return offerIDs, nil
}

func (repo *enrollmentRepository) QueryTraineeIDsByOffers(ctx context.Context, offerIDs []int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[int]bool)
	traineeIDs := make([]int, 0)
	for _, enr := range repo.db.enrollments {
		if containsInt(offerIDs, enr.OfferID) && !seen[enr.TraineeID] {
			seen[enr.TraineeID] = true
			traineeIDs = append(traineeIDs, enr.TraineeID)
		}
	}
	sort.Ints(traineeIDs)
	return traineeIDs, nil
}
