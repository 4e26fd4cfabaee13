package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/workflow"
)

type curriculumRepository struct {
	db *sqlx.DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db *sqlx.DB) *curriculumRepository {
	return &curriculumRepository{db: db}
}

type (
	programmeRow struct {
		ID            int       `db:"id"`
		ModuleID      int       `db:"module_id"`
		InstitutionID int       `db:"institution_id"`
		Title         string    `db:"title"`
		Document      string    `db:"document"`
		Status        string    `db:"status"`
		Observation   string    `db:"observation"`
		DecidedAt     null.Time `db:"decided_at"`
		CreatedAt     time.Time `db:"created_at"`
		UpdatedAt     time.Time `db:"updated_at"`
	}

	courseRow struct {
		ID          int       `db:"id"`
		ModuleID    int       `db:"module_id"`
		TeacherID   int       `db:"teacher_id"`
		Title       string    `db:"title"`
		Document    string    `db:"document"`
		Status      string    `db:"status"`
		Observation string    `db:"observation"`
		DecidedAt   null.Time `db:"decided_at"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}
)

func rowState(status, observation string, decidedAt null.Time, updatedAt time.Time) workflow.State {
	return workflow.State{
		Status:      workflow.Status(status),
		Observation: observation,
		DecidedAt:   decidedAt.Time,
		UpdatedAt:   updatedAt,
	}
}

func (r programmeRow) toModel() curriculum.Programme {
	return curriculum.Programme{
		ID:            r.ID,
		ModuleID:      r.ModuleID,
		InstitutionID: r.InstitutionID,
		Title:         r.Title,
		Document:      r.Document,
		State:         rowState(r.Status, r.Observation, r.DecidedAt, r.UpdatedAt),
		CreatedAt:     r.CreatedAt,
	}
}

func (r courseRow) toModel() curriculum.Course {
	return curriculum.Course{
		ID:        r.ID,
		ModuleID:  r.ModuleID,
		TeacherID: r.TeacherID,
		Title:     r.Title,
		Document:  r.Document,
		State:     rowState(r.Status, r.Observation, r.DecidedAt, r.UpdatedAt),
		CreatedAt: r.CreatedAt,
	}
}

func (repo *curriculumRepository) CreateProgramme(ctx context.Context, prog curriculum.Programme) (curriculum.Programme, error) {
	q := `INSERT INTO programme (module_id, institution_id, title, document, status, observation, created_at, updated_at)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		prog.ModuleID, prog.InstitutionID, prog.Title, prog.Document,
		prog.Status, prog.Observation, prog.CreatedAt, prog.UpdatedAt,
	).Scan(&prog.ID)
	if err != nil {
		return curriculum.Programme{}, errors.Wrap(err, "inserting programme")
	}
	return prog, nil
}

func (repo *curriculumRepository) GetProgramme(ctx context.Context, id int) (curriculum.Programme, error) {
	var r programmeRow
	q := `SELECT id, module_id, institution_id, title, document, status, observation, decided_at, created_at, updated_at
		  FROM programme WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return curriculum.Programme{}, trapNoRowsErr(err, curriculum.ErrProgrammeNotFound, "finding programme")
	}
	return r.toModel(), nil
}

func (repo *curriculumRepository) QueryProgrammes(ctx context.Context, filter curriculum.ProgrammeFilter, ordering ...core.DBOrdering) ([]curriculum.Programme, error) {
	q := `SELECT id, module_id, institution_id, title, document, status, observation, decided_at, created_at, updated_at
		  FROM programme WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.ModuleIDs != nil {
		if len(filter.ModuleIDs) == 0 {
			return []curriculum.Programme{}, nil
		}
		inQ, inArgs, err := sqlx.In(` AND module_id IN (?)`, filter.ModuleIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building programme query")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	if filter.InstitutionID != 0 {
		args = append(args, filter.InstitutionID)
		q += ` AND institution_id = ?`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += ` AND status = ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "id")

	rows := make([]programmeRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying programmes")
	}

	progs := make([]curriculum.Programme, 0, len(rows))
	for _, r := range rows {
		progs = append(progs, r.toModel())
	}
	return progs, nil
}

func (repo *curriculumRepository) UpdateProgramme(ctx context.Context, prog curriculum.Programme) (curriculum.Programme, error) {
	q := `UPDATE programme
		  SET title = $1, document = $2, status = $3, observation = $4, decided_at = $5, updated_at = $6
		  WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, q,
		prog.Title, prog.Document, prog.Status, prog.Observation,
		null.NewTime(prog.DecidedAt, !prog.DecidedAt.IsZero()), prog.UpdatedAt, prog.ID)
	if err != nil {
		return curriculum.Programme{}, errors.Wrap(err, "updating programme")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return curriculum.Programme{}, curriculum.ErrProgrammeNotFound
	}
	return prog, nil
}

func (repo *curriculumRepository) CreateCourse(ctx context.Context, course curriculum.Course) (curriculum.Course, error) {
	q := `INSERT INTO course (module_id, teacher_id, title, document, status, observation, created_at, updated_at)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := repo.db.QueryRowContext(ctx, q,
		course.ModuleID, course.TeacherID, course.Title, course.Document,
		course.Status, course.Observation, course.CreatedAt, course.UpdatedAt,
	).Scan(&course.ID)
	if err != nil {
		return curriculum.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo *curriculumRepository) GetCourse(ctx context.Context, id int) (curriculum.Course, error) {
	var r courseRow
	q := `SELECT id, module_id, teacher_id, title, document, status, observation, decided_at, created_at, updated_at
		  FROM course WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return curriculum.Course{}, trapNoRowsErr(err, curriculum.ErrCourseNotFound, "finding course")
	}
	return r.toModel(), nil
}

func (repo *curriculumRepository) QueryCourses(ctx context.Context, filter curriculum.CourseFilter, ordering ...core.DBOrdering) ([]curriculum.Course, error) {
	q := `SELECT id, module_id, teacher_id, title, document, status, observation, decided_at, created_at, updated_at
		  FROM course WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.ModuleIDs != nil {
		if len(filter.ModuleIDs) == 0 {
			return []curriculum.Course{}, nil
		}
		inQ, inArgs, err := sqlx.In(` AND module_id IN (?)`, filter.ModuleIDs)
		if err != nil {
			return nil, errors.Wrap(err, "building course query")
		}
		q += inQ
		args = append(args, inArgs...)
	}
	if filter.TeacherID != 0 {
		args = append(args, filter.TeacherID)
		q += ` AND teacher_id = ?`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += ` AND status = ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "id")

	rows := make([]courseRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]curriculum.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.toModel())
	}
	return courses, nil
}

func (repo *curriculumRepository) UpdateCourse(ctx context.Context, course curriculum.Course) (curriculum.Course, error) {
	q := `UPDATE course
		  SET title = $1, document = $2, status = $3, observation = $4, decided_at = $5, updated_at = $6
		  WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, q,
		course.Title, course.Document, course.Status, course.Observation,
		null.NewTime(course.DecidedAt, !course.DecidedAt.IsZero()), course.UpdatedAt, course.ID)
	if err != nil {
		return curriculum.Course{}, errors.Wrap(err, "updating course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return curriculum.Course{}, curriculum.ErrCourseNotFound
	}
	return course, nil
}
