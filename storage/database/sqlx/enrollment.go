package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/enrollment"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID          int       `db:"id"`
	TraineeID   int       `db:"trainee_id"`
	OfferID     int       `db:"offer_id"`
	Status      string    `db:"status"`
	Observation string    `db:"observation"`
	DecidedAt   null.Time `db:"decided_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r enrollmentRow) toModel() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:        r.ID,
		TraineeID: r.TraineeID,
		OfferID:   r.OfferID,
		State:     rowState(r.Status, r.Observation, r.DecidedAt, r.UpdatedAt),
		CreatedAt: r.CreatedAt,
	}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	q := `INSERT INTO enrollment (trainee_id, offer_id, status, observation, created_at, updated_at)
		  VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		enr.TraineeID, enr.OfferID, enr.Status, enr.Observation, enr.CreatedAt, enr.UpdatedAt,
	).Scan(&enr.ID)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, id int) (enrollment.Enrollment, error) {
	var r enrollmentRow
	q := `SELECT id, trainee_id, offer_id, status, observation, decided_at, created_at, updated_at
		  FROM enrollment WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return enrollment.Enrollment{}, trapNoRowsErr(err, enrollment.ErrNotFound, "finding enrollment")
	}
	return r.toModel(), nil
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter enrollment.Filter, ordering ...core.DBOrdering) ([]enrollment.Enrollment, error) {
	q := `SELECT id, trainee_id, offer_id, status, observation, decided_at, created_at, updated_at
		  FROM enrollment WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.TraineeID != 0 {
		args = append(args, filter.TraineeID)
		q += ` AND trainee_id = ?`
	}
	if filter.OfferIDs != nil {
		if len(filter.OfferIDs) == 0 {
			return []enrollment.Enrollment{}, nil
		}
		inQ, inArgs, err := sqlx.In(` AND offer_id IN (?)`, filter.OfferIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building enrollment query")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += ` AND status = ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "id")

	rows := make([]enrollmentRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}

	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrs = append(enrs, r.toModel())
	}
	return enrs, nil
}

func (repo *enrollmentRepository) QueryTraineeOfferIDs(ctx context.Context, traineeID int) ([]int, error) {
	offerIDs := make([]int, 0)
	q := `SELECT DISTINCT offer_id FROM enrollment WHERE trainee_id = $1 ORDER BY offer_id`
	if err := repo.db.SelectContext(ctx, &offerIDs, q, traineeID); err != nil {
		return nil, errors.Wrap(err, "querying trainee offer ids")
	}
	return offerIDs, nil
}

func (repo *enrollmentRepository) QueryTraineeIDsByOffers(ctx context.Context, offerIDs []int) ([]int, error) {
	if len(offerIDs) == 0 {
		return []int{}, nil
	}

	q, args, err := sqlx.In(`SELECT DISTINCT trainee_id FROM enrollment WHERE offer_id IN (?) ORDER BY trainee_id`, offerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building trainee query")
	}

	traineeIDs := make([]int, 0)
	if err = repo.db.SelectContext(ctx, &traineeIDs, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying trainee ids by offers")
	}
	return traineeIDs, nil
}
