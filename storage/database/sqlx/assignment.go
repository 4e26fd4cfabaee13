package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

type assignmentRow struct {
	ID           int       `db:"id"`
	TeacherID    int       `db:"teacher_id"`
	ModuleID     int       `db:"module_id"`
	AcademicYear string    `db:"academic_year"`
	Semester     string    `db:"semester"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r assignmentRow) toModel() assignment.Assignment {
	return assignment.Assignment{
		ID:           r.ID,
		TeacherID:    r.TeacherID,
		ModuleID:     r.ModuleID,
		AcademicYear: r.AcademicYear,
		Semester:     r.Semester,
		CreatedAt:    r.CreatedAt,
	}
}

const uniqueViolation = "23505"

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	q := `INSERT INTO assignment (teacher_id, module_id, academic_year, semester, created_at)
		  VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		asg.TeacherID, asg.ModuleID, asg.AcademicYear, asg.Semester, asg.CreatedAt,
	).Scan(&asg.ID)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return assignment.Assignment{}, assignment.ErrDuplicate
		}
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignment(ctx context.Context, teacherID, moduleID int, year, semester string) (assignment.Assignment, error) {
	var r assignmentRow
	q := `SELECT id, teacher_id, module_id, academic_year, semester, created_at FROM assignment
		  WHERE teacher_id = $1 AND module_id = $2 AND academic_year = $3 AND semester = $4`
	if err := repo.db.GetContext(ctx, &r, q, teacherID, moduleID, year, semester); err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "finding assignment")
	}
	return r.toModel(), nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, teacherID, moduleID int, year string) error {
	q := `DELETE FROM assignment WHERE teacher_id = $1 AND module_id = $2 AND academic_year = $3`
	res, err := repo.db.ExecContext(ctx, q, teacherID, moduleID, year)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.Filter) ([]assignment.Assignment, error) {
	q := `SELECT id, teacher_id, module_id, academic_year, semester, created_at FROM assignment WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		q += ` AND teacher_id = ?`
	}
	if filter.ModuleID != 0 {
		args = append(args, filter.ModuleID)
		q += ` AND module_id = ?`
	}
	if filter.AcademicYear != "" {
		args = append(args, filter.AcademicYear)
		q += ` AND academic_year = ?`
	}
	if filter.Semester != "" {
		args = append(args, filter.Semester)
		q += ` AND semester = ?`
	}
	q += ` ORDER BY id`

	rows := make([]assignmentRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	asgs := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		asgs = append(asgs, r.toModel())
	}
	return asgs, nil
}

func (repo *assignmentRepository) QueryTeacherModuleIDs(ctx context.Context, teacherID int) ([]int, error) {
	moduleIDs := make([]int, 0)
	q := `SELECT DISTINCT module_id FROM assignment WHERE teacher_id = $1 ORDER BY module_id`
	if err := repo.db.SelectContext(ctx, &moduleIDs, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher module ids")
	}
	return moduleIDs, nil
}
