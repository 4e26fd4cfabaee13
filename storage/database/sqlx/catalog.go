// Package sqlxrepos implements the repositories on PostgreSQL via sqlx.
//
// Domain models carry json tags only; each repository maps them to private row
// structs with db tags for scanning.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to the given sentinel
func trapNoRowsErr(err, sentinel error, msg string) error {
	if err == sql.ErrNoRows {
		return sentinel
	}
	return errors.Wrap(err, msg)
}

func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return fallback
	}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return strings.Join(clauses, ", ")
}

type (
	institutionRow struct {
		ID        int       `db:"id"`
		Name      string    `db:"name"`
		NameAr    string    `db:"name_ar"`
		Kind      string    `db:"kind"`
		Email     string    `db:"email"`
		Address   string    `db:"address"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	specialtyRow struct {
		ID            int    `db:"id"`
		Code          string `db:"code"`
		Designation   string `db:"designation"`
		DesignationAr string `db:"designation_ar"`
	}

	moduleRow struct {
		ID            int    `db:"id"`
		Code          string `db:"code"`
		Designation   string `db:"designation"`
		DesignationAr string `db:"designation_ar"`
		SpecialtyID   int    `db:"specialty_id"`
	}

	teacherRow struct {
		ID            int       `db:"id"`
		FirstName     string    `db:"first_name"`
		LastName      string    `db:"last_name"`
		Email         string    `db:"email"`
		InstitutionID int       `db:"institution_id"`
		CreatedAt     time.Time `db:"created_at"`
	}

	traineeRow struct {
		ID        int       `db:"id"`
		FirstName string    `db:"first_name"`
		LastName  string    `db:"last_name"`
		Email     string    `db:"email"`
		CreatedAt time.Time `db:"created_at"`
	}

	offerRow struct {
		ID            int       `db:"id"`
		InstitutionID int       `db:"institution_id"`
		SpecialtyID   int       `db:"specialty_id"`
		Diploma       string    `db:"diploma"`
		Mode          string    `db:"mode"`
		StartDate     time.Time `db:"start_date"`
		EndDate       time.Time `db:"end_date"`
		Status        string    `db:"status"`
		CreatedAt     time.Time `db:"created_at"`
		UpdatedAt     time.Time `db:"updated_at"`
	}
)

func (r offerRow) toModel() catalog.TrainingOffer {
	return catalog.TrainingOffer{
		ID:            r.ID,
		InstitutionID: r.InstitutionID,
		SpecialtyID:   r.SpecialtyID,
		Diploma:       r.Diploma,
		Mode:          r.Mode,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (repo *catalogRepository) GetInstitution(ctx context.Context, id int) (catalog.Institution, error) {
	var r institutionRow
	q := `SELECT id, name, name_ar, kind, email, address, created_at, updated_at FROM institution WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.Institution{}, trapNoRowsErr(err, catalog.ErrInstitutionNotFound, "finding institution")
	}
	return catalog.Institution{
		ID:        r.ID,
		Name:      r.Name,
		NameAr:    r.NameAr,
		Kind:      r.Kind,
		Email:     r.Email,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (repo *catalogRepository) QuerySpecialties(ctx context.Context) ([]catalog.Specialty, error) {
	rows := make([]specialtyRow, 0)
	q := `SELECT id, code, designation, designation_ar FROM specialty ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying specialties")
	}

	specialties := make([]catalog.Specialty, 0, len(rows))
	for _, r := range rows {
		specialties = append(specialties, catalog.Specialty{
			ID: r.ID, Code: r.Code, Designation: r.Designation, DesignationAr: r.DesignationAr,
		})
	}
	return specialties, nil
}

func (repo *catalogRepository) GetSpecialty(ctx context.Context, id int) (catalog.Specialty, error) {
	var r specialtyRow
	q := `SELECT id, code, designation, designation_ar FROM specialty WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.Specialty{}, trapNoRowsErr(err, catalog.ErrSpecialtyNotFound, "finding specialty")
	}
	return catalog.Specialty{ID: r.ID, Code: r.Code, Designation: r.Designation, DesignationAr: r.DesignationAr}, nil
}

func (repo *catalogRepository) QueryModules(ctx context.Context, specialtyID int) ([]catalog.Module, error) {
	rows := make([]moduleRow, 0)
	q := `SELECT id, code, designation, designation_ar, specialty_id FROM module`
	args := make([]interface{}, 0, 1)
	if specialtyID != 0 {
		q += ` WHERE specialty_id = $1`
		args = append(args, specialtyID)
	}
	q += ` ORDER BY id`
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}

	modules := make([]catalog.Module, 0, len(rows))
	for _, r := range rows {
		modules = append(modules, catalog.Module{
			ID: r.ID, Code: r.Code, Designation: r.Designation, DesignationAr: r.DesignationAr, SpecialtyID: r.SpecialtyID,
		})
	}
	return modules, nil
}

func (repo *catalogRepository) GetModule(ctx context.Context, id int) (catalog.Module, error) {
	var r moduleRow
	q := `SELECT id, code, designation, designation_ar, specialty_id FROM module WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.Module{}, trapNoRowsErr(err, catalog.ErrModuleNotFound, "finding module")
	}
	return catalog.Module{
		ID: r.ID, Code: r.Code, Designation: r.Designation, DesignationAr: r.DesignationAr, SpecialtyID: r.SpecialtyID,
	}, nil
}

func (repo *catalogRepository) GetTeacher(ctx context.Context, id int) (catalog.Teacher, error) {
	var r teacherRow
	q := `SELECT id, first_name, last_name, email, institution_id, created_at FROM teacher WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.Teacher{}, trapNoRowsErr(err, catalog.ErrTeacherNotFound, "finding teacher")
	}
	return catalog.Teacher{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		InstitutionID: r.InstitutionID,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func (repo *catalogRepository) GetTrainee(ctx context.Context, id int) (catalog.Trainee, error) {
	var r traineeRow
	q := `SELECT id, first_name, last_name, email, created_at FROM trainee WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.Trainee{}, trapNoRowsErr(err, catalog.ErrTraineeNotFound, "finding trainee")
	}
	return catalog.Trainee{
		ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, CreatedAt: r.CreatedAt,
	}, nil
}

func (repo *catalogRepository) CreateOffer(ctx context.Context, offer catalog.TrainingOffer) (catalog.TrainingOffer, error) {
	q := `INSERT INTO training_offer (institution_id, specialty_id, diploma, mode, start_date, end_date, status, created_at, updated_at)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		offer.InstitutionID, offer.SpecialtyID, offer.Diploma, offer.Mode,
		offer.StartDate, offer.EndDate, offer.Status, offer.CreatedAt, offer.UpdatedAt,
	).Scan(&offer.ID)
	if err != nil {
		return catalog.TrainingOffer{}, errors.Wrap(err, "inserting training offer")
	}
	return offer, nil
}

func (repo *catalogRepository) GetOffer(ctx context.Context, id int) (catalog.TrainingOffer, error) {
	var r offerRow
	q := `SELECT id, institution_id, specialty_id, diploma, mode, start_date, end_date, status, created_at, updated_at
		  FROM training_offer WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return catalog.TrainingOffer{}, trapNoRowsErr(err, catalog.ErrOfferNotFound, "finding training offer")
	}
	return r.toModel(), nil
}

func (repo *catalogRepository) QueryOffers(ctx context.Context, filter catalog.OfferFilter, ordering ...core.DBOrdering) ([]catalog.TrainingOffer, error) {
	q := `SELECT id, institution_id, specialty_id, diploma, mode, start_date, end_date, status, created_at, updated_at
		  FROM training_offer WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.InstitutionID != 0 {
		args = append(args, filter.InstitutionID)
		q += ` AND institution_id = ?`
	}
	if filter.SpecialtyID != 0 {
		args = append(args, filter.SpecialtyID)
		q += ` AND specialty_id = ?`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += ` AND status = ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "id")

	rows := make([]offerRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying training offers")
	}

	offers := make([]catalog.TrainingOffer, 0, len(rows))
	for _, r := range rows {
		offers = append(offers, r.toModel())
	}
	return offers, nil
}

func (repo *catalogRepository) UpdateOffer(ctx context.Context, offer catalog.TrainingOffer) (catalog.TrainingOffer, error) {
	offer.UpdatedAt = time.Now().UTC()
	q := `UPDATE training_offer
		  SET diploma = $1, mode = $2, start_date = $3, end_date = $4, status = $5, updated_at = $6
		  WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, q,
		offer.Diploma, offer.Mode, offer.StartDate, offer.EndDate, offer.Status, offer.UpdatedAt, offer.ID)
	if err != nil {
		return catalog.TrainingOffer{}, errors.Wrap(err, "updating training offer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.TrainingOffer{}, catalog.ErrOfferNotFound
	}
	return offer, nil
}
