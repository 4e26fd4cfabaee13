package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	// errors
	ErrNotFound       = errors.New("enrollment not found")
	ErrAlreadyApplied = errors.New("a pending application for this offer already exists")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, id int) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter Filter, ordering ...core.DBOrdering) ([]Enrollment, error)
		// QueryTraineeOfferIDs returns the ids of all offers the trainee has applied to,
		// regardless of status.
		QueryTraineeOfferIDs(ctx context.Context, traineeID int) ([]int, error)
		// QueryTraineeIDsByOffers returns the ids of all trainees enrolled in any of the
		// given offers.
		QueryTraineeIDsByOffers(ctx context.Context, offerIDs []int) ([]int, error)
	}

	Service struct {
		repo        Repository
		catalogRepo catalog.Repository
	}
)

func NewService(repo Repository, catalogRepo catalog.Repository) *Service {
	return &Service{repo: repo, catalogRepo: catalogRepo}
}

// Apply files a pending enrollment of the acting trainee against an active offer.
// A second pending application for the same offer is rejected.
func (svc *Service) Apply(ctx context.Context, actor core.Actor, ne NewEnrollment, validate *validator.Validate) (Enrollment, error) {
	if !actor.IsTrainee() {
		return Enrollment{}, core.ErrNotAuthorized
	}
	if err := ne.Validate(validate); err != nil {
		return Enrollment{}, err
	}

	offer, err := svc.catalogRepo.GetOffer(ctx, ne.OfferID)
	if err != nil {
		return Enrollment{}, err
	}
	if offer.Status != catalog.OfferActive {
		return Enrollment{}, core.NewValidationError(nil,
			core.FieldError{Field: "offer_id", Error: "offer is not open to applications"})
	}

	existing, err := svc.repo.QueryEnrollments(ctx, Filter{
		TraineeID: actor.SubjectID,
		OfferIDs:  []int{ne.OfferID},
		Status:    workflow.StatusPending,
	})
	if err != nil {
		return Enrollment{}, err
	}
	if len(existing) > 0 {
		return Enrollment{}, core.NewValidationError(ErrAlreadyApplied,
			core.FieldError{Field: "offer_id", Error: ErrAlreadyApplied.Error()})
	}

	now := time.Now().UTC()
	enr := Enrollment{
		TraineeID: actor.SubjectID,
		OfferID:   ne.OfferID,
		State:     workflow.NewState(workflow.KindEnrollment, now),
		CreatedAt: now,
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) Get(ctx context.Context, id int) (Enrollment, error) {
	return svc.repo.GetEnrollment(ctx, id)
}
