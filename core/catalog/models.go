package catalog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ufundi/core"
)

// Institution kinds
const (
	InstitutionRegional = "regional"
	InstitutionNational = "national"
	InstitutionTraining = "training"
)

// Training offer lifecycle. Offers carry their own simple lifecycle, independent of
// the approval workflow: draft -> active -> archived.
const (
	OfferDraft    = "draft"
	OfferActive   = "active"
	OfferArchived = "archived"
)

// Training modes
const (
	ModeResidential    = "residential"
	ModeApprenticeship = "apprenticeship"
	ModeEvening        = "evening"
	ModeDistance       = "distance"
)

type Institution struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	NameAr    string    `json:"name_ar"`
	Kind      string    `json:"kind"` // regional | national | training
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Specialty struct {
	ID            int    `json:"id"`
	Code          string `json:"code"`
	Designation   string `json:"designation"`
	DesignationAr string `json:"designation_ar"`
}

// Module is a teaching unit within a specialty. Immutable once referenced by
// teacher assignments.
type Module struct {
	ID            int    `json:"id"`
	Code          string `json:"code"`
	Designation   string `json:"designation"`
	DesignationAr string `json:"designation_ar"`
	SpecialtyID   int    `json:"specialty_id"`
}

type Teacher struct {
	ID            int       `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	InstitutionID int       `json:"institution_id"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

type Trainee struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type TrainingOffer struct {
	ID            int       `json:"id"`
	InstitutionID int       `json:"institution_id"` // owning training institution
	SpecialtyID   int       `json:"specialty_id"`
	Diploma       string    `json:"diploma"`
	Mode          string    `json:"mode"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Status        string    `json:"status"` // draft | active | archived
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewOffer contains information needed to open a new TrainingOffer (created as draft).
type NewOffer struct {
	SpecialtyID int       `json:"specialty_id" validate:"required"`
	Diploma     string    `json:"diploma" validate:"required"`
	Mode        string    `json:"mode" validate:"required,oneof=residential apprenticeship evening distance"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

func (no *NewOffer) Validate(validate *validator.Validate) error {
	no.Diploma = core.CleanString(no.Diploma)
	no.Mode = core.CleanString(no.Mode, true /* lower */)

	if err := validate.Struct(no); err != nil {
		return err
	}
	if !no.EndDate.After(no.StartDate) {
		return core.NewValidationError(nil, core.FieldError{Field: "end_date", Error: "must be after start_date"})
	}
	return nil
}

type OfferFilter struct {
	InstitutionID int
	SpecialtyID   int
	Status        string
}
