package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core/workflow"
)

// Enrollment links one trainee to one training offer, subject to the approval
// workflow: pending | accepted | refused | cancelled.
type Enrollment struct {
	ID        int `json:"id"`
	TraineeID int `json:"trainee_id"`
	OfferID   int `json:"offer_id"`
	workflow.State
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewEnrollment contains information needed to apply to a training offer.
type NewEnrollment struct {
	OfferID int `json:"offer_id" validate:"required"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

// Filter applies AND operation on set fields; a nil OfferIDs means no offer filter.
type Filter struct {
	TraineeID int
	OfferIDs  []int
	Status    workflow.Status
}
