package dummydb

import (
	"context"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/memoir"
)

type memoirRepository struct {
	db *DB
}

var _ memoir.Repository = (*memoirRepository)(nil) // interface compliance check

func NewMemoirRepository(db *DB) *memoirRepository {
	return &memoirRepository{db: db}
}

func (repo *memoirRepository) CreateMemoir(ctx context.Context, mem memoir.Memoir) (memoir.Memoir, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mem.ID = repo.db.nextID()
	repo.db.memoirs[mem.ID] = &mem
	return mem, nil
}

func (repo *memoirRepository) GetMemoir(ctx context.Context, id int) (memoir.Memoir, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mem, ok := repo.db.memoirs[id]; ok {
		return *mem, nil
	}
	return memoir.Memoir{}, memoir.ErrNotFound
}

func (repo *memoirRepository) GetMemoirByTrainee(ctx context.Context, traineeID int) (memoir.Memoir, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mem := range repo.db.memoirs {
		if mem.TraineeID == traineeID {
			return *mem, nil
		}
	}
	return memoir.Memoir{}, memoir.ErrNotFound
}

func (repo *memoirRepository) QueryMemoirs(ctx context.Context, filter memoir.Filter, ordering ...core.DBOrdering) ([]memoir.Memoir, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.memoirs))
	for id, mem := range repo.db.memoirs {
		if filter.TraineeID != 0 && mem.TraineeID != filter.TraineeID {
			continue
		}
		if filter.TeacherID != 0 && mem.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && mem.Status != filter.Status {
			continue
		}
		if filter.TraineeIDs != nil && !containsInt(filter.TraineeIDs, mem.TraineeID) {
			continue
		}
		if filter.ExcludeTraineeID != 0 && mem.TraineeID == filter.ExcludeTraineeID {
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids, ordering)

	mems := make([]memoir.Memoir, 0, len(ids))
	for _, id := range ids {
		mems = append(mems, *repo.db.memoirs[id])
	}
	return mems, nil
}

func (repo *memoirRepository) UpdateMemoir(ctx context.Context, mem memoir.Memoir) (memoir.Memoir, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.memoirs[mem.ID]; !ok {
		return memoir.Memoir{}, memoir.ErrNotFound
	}
	repo.db.memoirs[mem.ID] = &mem
	return mem, nil
}
