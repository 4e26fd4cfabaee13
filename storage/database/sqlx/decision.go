package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/workflow"
)

type decisionRepository struct {
	db *sqlx.DB
}

var _ decision.Repository = (*decisionRepository)(nil) // interface compliance check

func NewDecisionRepository(db *sqlx.DB) *decisionRepository {
	return &decisionRepository{db: db}
}

// entityTables maps each workflow kind to the table holding its state columns.
var entityTables = map[workflow.Kind]string{
	workflow.KindProgramme:  "programme",
	workflow.KindCourse:     "course",
	workflow.KindMemoir:     "memoir",
	workflow.KindEnrollment: "enrollment",
}

type stateRow struct {
	Status      string    `db:"status"`
	Observation string    `db:"observation"`
	DecidedAt   null.Time `db:"decided_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (repo *decisionRepository) GetState(ctx context.Context, kind workflow.Kind, id int) (workflow.State, error) {
	table, ok := entityTables[kind]
	if !ok {
		return workflow.State{}, decision.ErrNotFound
	}

	var r stateRow
	q := `SELECT status, observation, decided_at, updated_at FROM ` + table + ` WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		return workflow.State{}, trapNoRowsErr(err, decision.ErrNotFound, "finding "+string(kind)+" state")
	}
	return rowState(r.Status, r.Observation, r.DecidedAt, r.UpdatedAt), nil
}

// ApplyDecision writes the new state and appends the log record in one transaction.
// The transaction covers a single entity; batch callers get per-entity atomicity only.
func (repo *decisionRepository) ApplyDecision(ctx context.Context, kind workflow.Kind, id int, st workflow.State, rec decision.Record) error {
	table, ok := entityTables[kind]
	if !ok {
		return decision.ErrNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning decision tx")
	}
	defer func() { _ = tx.Rollback() }()

	q := `UPDATE ` + table + ` SET status = $1, observation = $2, decided_at = $3, updated_at = $4 WHERE id = $5`
	res, err := tx.ExecContext(ctx, q,
		st.Status, st.Observation, null.NewTime(st.DecidedAt, !st.DecidedAt.IsZero()), st.UpdatedAt, id)
	if err != nil {
		return errors.Wrap(err, "updating "+string(kind)+" state")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return decision.ErrNotFound
	}

	q = `INSERT INTO decision_record (id, kind, entity_id, actor_role, actor_id, from_status, to_status, observation, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err = tx.ExecContext(ctx, q,
		rec.ID, rec.Kind, rec.EntityID, rec.ActorRole, rec.ActorID,
		rec.FromStatus, rec.ToStatus, rec.Observation, rec.DecidedAt); err != nil {
		return errors.Wrap(err, "inserting decision record")
	}

	return errors.Wrap(tx.Commit(), "committing decision")
}

func (repo *decisionRepository) OwnerEmail(ctx context.Context, kind workflow.Kind, id int) (string, error) {
	var q string
	switch kind {
	case workflow.KindProgramme:
		q = `SELECT i.email FROM programme p JOIN institution i ON i.id = p.institution_id WHERE p.id = $1`
	case workflow.KindCourse:
		q = `SELECT t.email FROM course c JOIN teacher t ON t.id = c.teacher_id WHERE c.id = $1`
	case workflow.KindMemoir:
		q = `SELECT t.email FROM memoir m JOIN trainee t ON t.id = m.trainee_id WHERE m.id = $1`
	case workflow.KindEnrollment:
		q = `SELECT t.email FROM enrollment e JOIN trainee t ON t.id = e.trainee_id WHERE e.id = $1`
	default:
		return "", decision.ErrNotFound
	}

	var email string
	if err := repo.db.GetContext(ctx, &email, q, id); err != nil {
		return "", trapNoRowsErr(err, decision.ErrNotFound, "finding "+string(kind)+" owner email")
	}
	return email, nil
}

type recordRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	EntityID    int       `db:"entity_id"`
	ActorRole   string    `db:"actor_role"`
	ActorID     int       `db:"actor_id"`
	FromStatus  string    `db:"from_status"`
	ToStatus    string    `db:"to_status"`
	Observation string    `db:"observation"`
	DecidedAt   time.Time `db:"decided_at"`
}

func (repo *decisionRepository) QueryRecords(ctx context.Context, filter decision.RecordFilter, ordering ...core.DBOrdering) ([]decision.Record, error) {
	q := `SELECT id, kind, entity_id, actor_role, actor_id, from_status, to_status, observation, decided_at
		  FROM decision_record WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		q += ` AND kind = ?`
	}
	if filter.EntityID != 0 {
		args = append(args, filter.EntityID)
		q += ` AND entity_id = ?`
	}
	q += ` ORDER BY ` + orderBy(ordering, "decided_at")

	rows := make([]recordRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying decision records")
	}

	recs := make([]decision.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, decision.Record{
			ID:          r.ID,
			Kind:        workflow.Kind(r.Kind),
			EntityID:    r.EntityID,
			ActorRole:   r.ActorRole,
			ActorID:     r.ActorID,
			FromStatus:  workflow.Status(r.FromStatus),
			ToStatus:    workflow.Status(r.ToStatus),
			Observation: r.Observation,
			DecidedAt:   r.DecidedAt,
		})
	}
	return recs, nil
}
