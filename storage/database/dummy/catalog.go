package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) GetInstitution(ctx context.Context, id int) (catalog.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inst, ok := repo.db.institutions[id]; ok {
		return *inst, nil
	}
	return catalog.Institution{}, catalog.ErrInstitutionNotFound
}

func (repo *catalogRepository) QuerySpecialties(ctx context.Context) ([]catalog.Specialty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	specialties := make([]catalog.Specialty, 0, len(repo.db.specialties))
	for _, sp := range repo.db.specialties {
		specialties = append(specialties, *sp)
	}
	sort.Slice(specialties, func(i, j int) bool { return specialties[i].ID < specialties[j].ID })
	return specialties, nil
}

func (repo *catalogRepository) GetSpecialty(ctx context.Context, id int) (catalog.Specialty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sp, ok := repo.db.specialties[id]; ok {
		return *sp, nil
	}
	return catalog.Specialty{}, catalog.ErrSpecialtyNotFound
}

func (repo *catalogRepository) QueryModules(ctx context.Context, specialtyID int) ([]catalog.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	modules := make([]catalog.Module, 0, len(repo.db.modules))
	for _, mod := range repo.db.modules {
		if specialtyID != 0 && mod.SpecialtyID != specialtyID {
			continue
		}
		modules = append(modules, *mod)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID < modules[j].ID })
	return modules, nil
}

func (repo *catalogRepository) GetModule(ctx context.Context, id int) (catalog.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mod, ok := repo.db.modules[id]; ok {
		return *mod, nil
	}
	return catalog.Module{}, catalog.ErrModuleNotFound
}

func (repo *catalogRepository) GetTeacher(ctx context.Context, id int) (catalog.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return *t, nil
	}
	return catalog.Teacher{}, catalog.ErrTeacherNotFound
}

func (repo *catalogRepository) GetTrainee(ctx context.Context, id int) (catalog.Trainee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.trainees[id]; ok {
		return *t, nil
	}
	return catalog.Trainee{}, catalog.ErrTraineeNotFound
}

func (repo *catalogRepository) CreateOffer(ctx context.Context, offer catalog.TrainingOffer) (catalog.TrainingOffer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	offer.ID = repo.db.nextID()
	repo.db.offers[offer.ID] = &offer
	return offer, nil
}

func (repo *catalogRepository) GetOffer(ctx context.Context, id int) (catalog.TrainingOffer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.offers[id]; ok {
		return *o, nil
	}
	return catalog.TrainingOffer{}, catalog.ErrOfferNotFound
}

func (repo *catalogRepository) QueryOffers(ctx context.Context, filter catalog.OfferFilter, ordering ...core.DBOrdering) ([]catalog.TrainingOffer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]int, 0, len(repo.db.offers))
	for id, o := range repo.db.offers {
		if filter.InstitutionID != 0 && o.InstitutionID != filter.InstitutionID {
			continue
		}
		if filter.SpecialtyID != 0 && o.SpecialtyID != filter.SpecialtyID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	sortIDs(ids, ordering)

	offers := make([]catalog.TrainingOffer, 0, len(ids))
	for _, id := range ids {
		offers = append(offers, *repo.db.offers[id])
	}
	return offers, nil
}

func (repo *catalogRepository) UpdateOffer(ctx context.Context, offer catalog.TrainingOffer) (catalog.TrainingOffer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.offers[offer.ID]; !ok {
		return catalog.TrainingOffer{}, catalog.ErrOfferNotFound
	}
	repo.db.offers[offer.ID] = &offer
	return offer, nil
}
