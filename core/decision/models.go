package decision

import (
	"time"

	"github.com/trezcool/ufundi/core/workflow"
)

// Record is one entry of the append-only decision log: who moved which entity from
// which status to which, when, with what observation. The log is never updated in
// place; the entity row only keeps the latest state.
type Record struct {
	ID          string          `json:"id"` // uuid
	Kind        workflow.Kind   `json:"kind"`
	EntityID    int             `json:"entity_id"`
	ActorRole   string          `json:"actor_role"`
	ActorID     int             `json:"actor_id"`
	FromStatus  workflow.Status `json:"from_status"`
	ToStatus    workflow.Status `json:"to_status"`
	Observation string          `json:"observation,omitempty"`
	DecidedAt   time.Time       `json:"decided_at"` // UTC
}

type RecordFilter struct {
	Kind     workflow.Kind
	EntityID int
}

// Outcome is the per-entity result of a (bulk) decision: applied, or skipped with
// the reason.
type Outcome struct {
	EntityID int    `json:"id"`
	Applied  bool   `json:"applied"`
	Reason   string `json:"reason,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Result reports a best-effort batch: entries succeed or fail independently, there
// is no cross-entry atomicity.
type Result struct {
	Applied  int       `json:"applied"`
	Skipped  int       `json:"skipped"`
	Outcomes []Outcome `json:"outcomes"`
}

// Skip reasons surfaced in Outcome.Reason, alongside workflow transition reasons.
const (
	ReasonNotFound      = "not_found"
	ReasonNotAuthorized = "not_authorized"
)
