package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
)

var (
	// errors
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrSpecialtyNotFound   = errors.New("specialty not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrTeacherNotFound     = errors.New("teacher not found")
	ErrTraineeNotFound     = errors.New("trainee not found")
	ErrOfferNotFound       = errors.New("training offer not found")
)

type (
	Repository interface {
		GetInstitution(ctx context.Context, id int) (Institution, error)
		QuerySpecialties(ctx context.Context) ([]Specialty, error)
		GetSpecialty(ctx context.Context, id int) (Specialty, error)
		// QueryModules returns all modules; specialtyID = 0 means no specialty filter.
		QueryModules(ctx context.Context, specialtyID int) ([]Module, error)
		GetModule(ctx context.Context, id int) (Module, error)
		GetTeacher(ctx context.Context, id int) (Teacher, error)
		GetTrainee(ctx context.Context, id int) (Trainee, error)
		CreateOffer(ctx context.Context, offer TrainingOffer) (TrainingOffer, error)
		GetOffer(ctx context.Context, id int) (TrainingOffer, error)
		QueryOffers(ctx context.Context, filter OfferFilter, ordering ...core.DBOrdering) ([]TrainingOffer, error)
		UpdateOffer(ctx context.Context, offer TrainingOffer) (TrainingOffer, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QuerySpecialties(ctx context.Context) ([]Specialty, error) {
	return svc.repo.QuerySpecialties(ctx)
}

func (svc *Service) QueryModules(ctx context.Context, specialtyID int) ([]Module, error) {
	return svc.repo.QueryModules(ctx, specialtyID)
}

func (svc *Service) GetModule(ctx context.Context, id int) (Module, error) {
	return svc.repo.GetModule(ctx, id)
}

// CreateOffer opens a draft TrainingOffer owned by the acting training institution.
func (svc *Service) CreateOffer(ctx context.Context, actor core.Actor, no NewOffer, validate *validator.Validate) (TrainingOffer, error) {
	if !actor.IsTraining() {
		return TrainingOffer{}, core.ErrNotAuthorized
	}
	if err := no.Validate(validate); err != nil {
		return TrainingOffer{}, err
	}
	if _, err := svc.repo.GetSpecialty(ctx, no.SpecialtyID); err != nil {
		return TrainingOffer{}, err
	}

	now := time.Now().UTC()
	offer := TrainingOffer{
		InstitutionID: actor.SubjectID,
		SpecialtyID:   no.SpecialtyID,
		Diploma:       no.Diploma,
		Mode:          no.Mode,
		StartDate:     no.StartDate,
		EndDate:       no.EndDate,
		Status:        OfferDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateOffer(ctx, offer)
}

// ActivateOffer opens a draft offer to enrollment applications.
func (svc *Service) ActivateOffer(ctx context.Context, actor core.Actor, id int) (TrainingOffer, error) {
	return svc.setOfferStatus(ctx, actor, id, OfferDraft, OfferActive)
}

// ArchiveOffer closes an active offer; its enrollments keep their state.
func (svc *Service) ArchiveOffer(ctx context.Context, actor core.Actor, id int) (TrainingOffer, error) {
	return svc.setOfferStatus(ctx, actor, id, OfferActive, OfferArchived)
}

func (svc *Service) setOfferStatus(ctx context.Context, actor core.Actor, id int, from, to string) (TrainingOffer, error) {
	offer, err := svc.repo.GetOffer(ctx, id)
	if err != nil {
		return TrainingOffer{}, err
	}
	if !actor.IsTraining() || offer.InstitutionID != actor.SubjectID {
		return TrainingOffer{}, core.ErrNotAuthorized
	}
	if offer.Status != from {
		return TrainingOffer{}, core.NewValidationError(nil,
			core.FieldError{Field: "status", Error: "offer is " + offer.Status + ", expected " + from})
	}
	offer.Status = to
	offer.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateOffer(ctx, offer)
}

// QueryOffers lists offers for the acting role: a training institution sees its own
// offers in all states; everyone else sees active offers only.
func (svc *Service) QueryOffers(ctx context.Context, actor core.Actor, filter OfferFilter) ([]TrainingOffer, error) {
	if actor.IsTraining() {
		filter.InstitutionID = actor.SubjectID
	} else {
		filter.Status = OfferActive
	}
	return svc.repo.QueryOffers(ctx, filter, core.DescID...)
}
