package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/memoir"
)

type memoirRepository struct {
	db *sqlx.DB
}

var _ memoir.Repository = (*memoirRepository)(nil) // interface compliance check

func NewMemoirRepository(db *sqlx.DB) *memoirRepository {
	return &memoirRepository{db: db}
}

type memoirRow struct {
	ID          int       `db:"id"`
	TraineeID   int       `db:"trainee_id"`
	TeacherID   int       `db:"teacher_id"`
	Title       string    `db:"title"`
	Document    string    `db:"document"`
	Status      string    `db:"status"`
	Observation string    `db:"observation"`
	DecidedAt   null.Time `db:"decided_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r memoirRow) toModel() memoir.Memoir {
	return memoir.Memoir{
		ID:        r.ID,
		TraineeID: r.TraineeID,
		TeacherID: r.TeacherID,
		Title:     r.Title,
		Document:  r.Document,
		State:     rowState(r.Status, r.Observation, r.DecidedAt, r.UpdatedAt),
		CreatedAt: r.CreatedAt,
	}
}

const memoirColumns = `id, trainee_id, teacher_id, title, document, status, observation, decided_at, created_at, updated_at`

func (repo *memoirRepository) CreateMemoir(ctx context.Context, mem memoir.Memoir) (memoir.Memoir, error) {
	q := `INSERT INTO memoir (trainee_id, teacher_id, title, document, status, observation, created_at, updated_at)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		mem.TraineeID, mem.TeacherID, mem.Title, mem.Document,
		mem.Status, mem.Observation, mem.CreatedAt, mem.UpdatedAt,
	).Scan(&mem.ID)
	if err != nil {
		return memoir.Memoir{}, errors.Wrap(err, "inserting memoir")
	}
	return mem, nil
}

func (repo *memoirRepository) GetMemoir(ctx context.Context, id int) (memoir.Memoir, error) {
	var r memoirRow
	q := `SELECT ` + memoirColumns + ` FROM memoir WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return memoir.Memoir{}, trapNoRowsErr(err, memoir.ErrNotFound, "finding memoir")
	}
	return r.toModel(), nil
}

func (repo *memoirRepository) GetMemoirByTrainee(ctx context.Context, traineeID int) (memoir.Memoir, error) {
	var r memoirRow
	q := `SELECT ` + memoirColumns + ` FROM memoir WHERE trainee_id = $1`
	if err := repo.db.GetContext(ctx, &r, q, traineeID); err != nil {
		return memoir.Memoir{}, trapNoRowsErr(err, memoir.ErrNotFound, "finding memoir by trainee")
	}
	return r.toModel(), nil
}

func (repo *memoirRepository) QueryMemoirs(ctx context.Context, filter memoir.Filter, ordering ...core.DBOrdering) ([]memoir.Memoir, error) {
	q := `SELECT ` + memoirColumns + ` FROM memoir WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if filter.TraineeID != 0 {
		args = append(args, filter.TraineeID)
		q += ` AND trainee_id = ?`
	}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		q += ` AND teacher_id = ?`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += ` AND status = ?`
	}
	if filter.TraineeIDs != nil {
		if len(filter.TraineeIDs) == 0 {
			return []memoir.Memoir{}, nil
		}
		inQ, inArgs, err := sqlx.In(` AND trainee_id IN (?)`, filter.TraineeIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building memoir query")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	if filter.ExcludeTraineeID != 0 {
		args = append(args, filter.ExcludeTraineeID)
		q += ` AND trainee_id <> ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "id")

	rows := make([]memoirRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying memoirs")
	}

	mems := make([]memoir.Memoir, 0, len(rows))
	for _, r := range rows {
		mems = append(mems, r.toModel())
	}
	return mems, nil
}

func (repo *memoirRepository) UpdateMemoir(ctx context.Context, mem memoir.Memoir) (memoir.Memoir, error) {
	q := `UPDATE memoir
		  SET title = $1, document = $2, status = $3, observation = $4, decided_at = $5, updated_at = $6
		  WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, q,
		mem.Title, mem.Document, mem.Status, mem.Observation,
		null.NewTime(mem.DecidedAt, !mem.DecidedAt.IsZero()), mem.UpdatedAt, mem.ID)
	if err != nil {
		return memoir.Memoir{}, errors.Wrap(err, "updating memoir")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return memoir.Memoir{}, memoir.ErrNotFound
	}
	return mem, nil
}
