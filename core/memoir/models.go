package memoir

import (
	"time"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/workflow"
)

// Memoir is a graduation document owned by exactly one trainee and supervised by
// one teacher. The pairing is created by a training institution, not self-selected.
type Memoir struct {
	ID        int    `json:"id"`
	TraineeID int    `json:"trainee_id"`
	TeacherID int    `json:"teacher_id"` // supervisor
	Title     string `json:"title,omitempty"`
	Document  string `json:"document,omitempty"` // opaque file-storage reference
	workflow.State
	CreatedAt time.Time `json:"created_at"` // UTC
}

// UpdateMemoir defines the content fields the owning trainee may edit pre-acceptance.
type UpdateMemoir struct {
	Title    string `json:"title"`
	Document string `json:"document"`
}

func (um *UpdateMemoir) Clean() {
	um.Title = core.CleanString(um.Title)
	um.Document = core.CleanString(um.Document)
}

// Filter applies AND operation on set fields. TraineeIDs (when non-nil) restricts to
// the given owners; ExcludeTraineeID drops one owner from the result.
type Filter struct {
	TraineeID        int
	TeacherID        int
	Status           workflow.Status
	TraineeIDs       []int
	ExcludeTraineeID int
}
